// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/dalemusser/patrohub/internal/app/system/htmlsanitize"
)

// InscriptionEmailData holds data for the registration confirmation.
type InscriptionEmailData struct {
	GroupName        string // "Patro Garçons"
	ChildName        string
	SectionLabel     string
	SchoolYear       string
	Amount           float64
	PaymentReference string
	IBAN             string
	Beneficiary      string
	ContactEmail     string
}

// BuildInscriptionEmail creates the confirmation sent to the parent after a
// yearly registration.
func BuildInscriptionEmail(data InscriptionEmailData) Email {
	return Email{
		To:       "", // Set by caller
		Subject:  fmt.Sprintf("Inscription de %s au %s (%s)", data.ChildName, data.GroupName, data.SchoolYear),
		TextBody: buildInscriptionText(data),
		HTMLBody: render(inscriptionHTML, data),
	}
}

// CampEmailData holds data for the camp sign-up confirmation.
type CampEmailData struct {
	CampName         string
	ChildName        string
	Dates            string // "12/07/2026 - 19/07/2026"
	Location         string
	Description      string // sanitized HTML
	Amount           float64
	PaymentReference string
	IBAN             string
	Beneficiary      string
}

// BuildCampEmail creates the confirmation sent after a camp sign-up.
func BuildCampEmail(data CampEmailData) Email {
	return Email{
		Subject:  fmt.Sprintf("Inscription de %s au camp %s", data.ChildName, data.CampName),
		TextBody: buildCampText(data),
		HTMLBody: render(campHTML, data),
	}
}

func buildInscriptionText(d InscriptionEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Bonjour,\n\nL'inscription de %s au %s pour l'année %s est bien enregistrée.\n", d.ChildName, d.GroupName, d.SchoolYear)
	if d.SectionLabel != "" {
		fmt.Fprintf(&buf, "Section : %s\n", d.SectionLabel)
	}
	writePayment(&buf, d.Amount, d.IBAN, d.Beneficiary, d.PaymentReference)
	if d.ContactEmail != "" {
		fmt.Fprintf(&buf, "Une question ? Écrivez-nous à %s.\n", d.ContactEmail)
	}
	return buf.String()
}

func buildCampText(d CampEmailData) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Bonjour,\n\n%s est inscrit(e) au camp %s.\n", d.ChildName, d.CampName)
	fmt.Fprintf(&buf, "Dates : %s\nLieu : %s\n", d.Dates, d.Location)
	if d.Description != "" {
		fmt.Fprintf(&buf, "\n%s\n", htmlsanitize.PlainText(d.Description))
	}
	writePayment(&buf, d.Amount, d.IBAN, d.Beneficiary, d.PaymentReference)
	return buf.String()
}

func writePayment(buf *bytes.Buffer, amount float64, iban, beneficiary, ref string) {
	fmt.Fprintf(buf, "\nMontant à payer : %.2f EUR\n", amount)
	if iban != "" {
		fmt.Fprintf(buf, "Compte : %s (%s)\n", iban, beneficiary)
	}
	fmt.Fprintf(buf, "Communication : %s\n\n", ref)
	buf.WriteString("L'inscription ne sera validée qu'après réception du paiement.\n\n")
}

var funcs = template.FuncMap{"rich": htmlsanitize.SanitizeToHTML}

var (
	inscriptionHTML = template.Must(template.New("inscription").Funcs(funcs).Parse(layoutHTML + `
{{define "content"}}
<p>L'inscription de <strong>{{.ChildName}}</strong> au {{.GroupName}} pour l'année {{.SchoolYear}} est bien enregistrée.</p>
{{if .SectionLabel}}<p>Section : <strong>{{.SectionLabel}}</strong></p>{{end}}
{{template "payment" .}}
{{if .ContactEmail}}<p style="font-size:13px;color:#6b7280;">Une question ? <a href="mailto:{{.ContactEmail}}">{{.ContactEmail}}</a></p>{{end}}
{{end}}`))

	campHTML = template.Must(template.New("camp").Funcs(funcs).Parse(layoutHTML + `
{{define "content"}}
<p><strong>{{.ChildName}}</strong> est inscrit(e) au camp <strong>{{.CampName}}</strong>.</p>
<p>Dates : {{.Dates}}<br>Lieu : {{.Location}}</p>
{{if .Description}}<div>{{rich .Description}}</div>{{end}}
{{template "payment" .}}
{{end}}`))
)

func render(t *template.Template, data any) string {
	var buf bytes.Buffer
	_ = t.Execute(&buf, data)
	return buf.String()
}

const layoutHTML = `<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="margin:0;padding:24px;font-family:Arial,sans-serif;background-color:#f3f4f6;color:#374151;">
  <div style="max-width:520px;margin:0 auto;background:#ffffff;border-radius:8px;padding:32px;">
    {{template "content" .}}
  </div>
</body>
</html>
{{define "payment"}}
<div style="background:#f0fdf4;border:1px solid #86efac;border-radius:8px;padding:16px;margin:16px 0;">
  <p style="margin:0 0 8px;">Montant à payer : <strong>{{printf "%.2f" .Amount}} EUR</strong></p>
  {{if .IBAN}}<p style="margin:0 0 8px;">Compte : <span style="font-family:monospace;">{{.IBAN}}</span> ({{.Beneficiary}})</p>{{end}}
  <p style="margin:0;">Communication : <strong>{{.PaymentReference}}</strong></p>
</div>
<p style="font-size:13px;color:#6b7280;">L'inscription ne sera validée qu'après réception du paiement.</p>
{{end}}`
