// internal/app/system/payref/payref.go
package payref

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// maxLen keeps references inside the 140 characters of an EPC remittance.
const maxLen = 140

// Inscription is the transfer communication for a yearly fee:
// "Cotisation 2025-2026 DUPONT Lucas".
func Inscription(schoolYear, first, last string) string {
	return clip(fmt.Sprintf("Cotisation %s %s %s", schoolYear, strings.ToUpper(last), first))
}

// Camp is the transfer communication for a camp sign-up. The uuid fragment
// tells apart two children with the same name in one camp:
// "CAMP-ETE-2026 3F9A1C2B DUPONT Lucas".
func Camp(campName, first, last string, id uuid.UUID) string {
	frag := strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
	return clip(fmt.Sprintf("CAMP-%s %s %s %s", slug(campName), frag, strings.ToUpper(last), first))
}

// slug folds s to uppercase ASCII words joined by "-", at most 30 runes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	plain, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		plain = s
	}
	for _, r := range plain {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToUpper(r))
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > 30 {
		out = strings.TrimRight(out[:30], "-")
	}
	return out
}

func clip(s string) string {
	r := []rune(s)
	if len(r) > maxLen {
		return string(r[:maxLen])
	}
	return s
}
