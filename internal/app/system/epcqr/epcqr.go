// internal/app/system/epcqr/epcqr.go
package epcqr

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	qrcode "github.com/skip2/go-qrcode"
)

// Errors returned by Payload and PNG.
var (
	ErrMissingAccount = errors.New("epcqr: beneficiary and IBAN are required")
	ErrInvalidAmount  = errors.New("epcqr: amount must be between 0.01 and 999999999.99")
)

// Field limits of the EPC069-12 (SEPA credit transfer) format.
const (
	maxBeneficiary = 70
	maxRemittance  = 140
	maxInfo        = 70
	defaultSize    = 256
)

// Transfer is one SEPA credit transfer to encode.
type Transfer struct {
	BIC         string
	Beneficiary string
	IBAN        string
	Amount      float64 // euros
	Reference   string  // free-form remittance ("communication")
	Message     string  // beneficiary-to-originator info
}

// Payload renders t in the EPC QR text form, version 002, UTF-8.
func Payload(t Transfer) (string, error) {
	iban := strings.ToUpper(strings.Join(strings.Fields(t.IBAN), ""))
	name := strings.TrimSpace(t.Beneficiary)
	if iban == "" || name == "" {
		return "", ErrMissingAccount
	}
	if t.Amount < 0.01 || t.Amount > 999999999.99 {
		return "", ErrInvalidAmount
	}

	lines := []string{
		"BCD",
		"002",
		"1",
		"SCT",
		strings.ToUpper(strings.TrimSpace(t.BIC)),
		truncate(name, maxBeneficiary),
		iban,
		fmt.Sprintf("EUR%.2f", t.Amount),
		"", // purpose
		truncate(strings.TrimSpace(t.Reference), maxRemittance),
		truncate(strings.TrimSpace(t.Message), maxInfo),
	}
	return strings.Join(lines, "\n"), nil
}

// PNG renders t as a QR code image of size×size pixels (256 when size<=0).
func PNG(t Transfer, size int) ([]byte, error) {
	payload, err := Payload(t)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = defaultSize
	}
	// EPC requires error correction level M.
	return qrcode.Encode(payload, qrcode.Medium, size)
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
