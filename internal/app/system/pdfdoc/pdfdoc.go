// internal/app/system/pdfdoc/pdfdoc.go
package pdfdoc

import (
	"io"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	margin    = 12.0
	lineH     = 5.5
	labelW    = 55.0
	titleSize = 16.0
	bodySize  = 10.0
)

type rgb struct{ r, g, b int }

var (
	grey   = rgb{243, 244, 246}
	red    = rgb{254, 226, 226}
	amber  = rgb{254, 243, 199}
	blue   = rgb{219, 234, 254}
	ink    = rgb{17, 24, 39}
	subtle = rgb{75, 85, 99}
)

// doc wraps an A4 fpdf document with the core fonts. Core fonts are
// cp1252, so every string goes through tr.
type doc struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func newDoc(title string, created time.Time) *doc {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("patrohub", true)
	pdf.SetCreationDate(created)
	pdf.AliasNbPages("")
	d := &doc{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		d.font("I", 8, subtle)
		pdf.CellFormat(0, 4, d.tr(created.Format("02/01/2006")+" - page "+strconv.Itoa(pdf.PageNo())+"/{nb}"), "", 0, "R", false, 0, "")
	})
	return d
}

func (d *doc) font(style string, size float64, c rgb) {
	d.pdf.SetFont("Helvetica", style, size)
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *doc) width() float64 {
	w, _ := d.pdf.GetPageSize()
	return w - 2*margin
}

func (d *doc) title(text, subtitle string) {
	d.font("B", titleSize, ink)
	d.pdf.CellFormat(0, 9, d.tr(text), "", 1, "L", false, 0, "")
	if subtitle != "" {
		d.font("", bodySize, subtle)
		d.pdf.CellFormat(0, lineH, d.tr(subtitle), "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(3)
}

func (d *doc) heading(text string, fill rgb) {
	d.pdf.SetFillColor(fill.r, fill.g, fill.b)
	d.font("B", 11, ink)
	d.pdf.CellFormat(0, 7, d.tr(text), "", 1, "L", true, 0, "")
	d.pdf.Ln(1)
}

// field writes "label  value" with the value wrapped in the remaining width.
func (d *doc) field(label, value string) {
	if value == "" {
		value = "-"
	}
	x := d.pdf.GetX()
	d.font("B", bodySize, ink)
	d.pdf.CellFormat(labelW, lineH, d.tr(label), "", 0, "L", false, 0, "")
	d.font("", bodySize, ink)
	d.pdf.MultiCell(d.width()-labelW, lineH, d.tr(value), "", "L", false)
	d.pdf.SetX(x)
}

// box writes a filled paragraph, used for alerts.
func (d *doc) box(title, body string, fill rgb) {
	d.pdf.SetFillColor(fill.r, fill.g, fill.b)
	d.font("B", bodySize, ink)
	d.pdf.CellFormat(0, lineH+1, d.tr(title), "", 1, "L", true, 0, "")
	d.font("", bodySize, ink)
	d.pdf.MultiCell(0, lineH, d.tr(body), "", "L", true)
	d.pdf.Ln(2)
}

func (d *doc) text(style, s string, c rgb) {
	d.font(style, bodySize, c)
	d.pdf.MultiCell(0, lineH, d.tr(s), "", "L", false)
}

func (d *doc) output(w io.Writer) error {
	if err := d.pdf.Error(); err != nil {
		return err
	}
	return d.pdf.Output(w)
}

func yesNo(b bool) string {
	if b {
		return "Oui"
	}
	return "Non"
}
