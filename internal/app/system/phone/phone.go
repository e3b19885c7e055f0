// internal/app/system/phone/phone.go
package phone

import "strings"

// CountryCode is the Belgian calling code used for canonical keys.
const CountryCode = "32"

// Normalize returns the canonical digit string used to store and look up
// guardian phone numbers. Unrecognized shapes pass through as bare digits.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	d := digits(raw)
	d = strings.TrimPrefix(d, "00")
	switch {
	case strings.HasPrefix(d, CountryCode):
		return d
	case strings.HasPrefix(d, "0"):
		return CountryCode + d[1:]
	case len(d) == 9 && strings.HasPrefix(d, "4"):
		return CountryCode + d
	}
	return d
}

// Format renders a canonical number for display:
// "32477123456" -> "+32 477 12 34 56", "0477123456" -> "0477 12 34 56".
// Anything else is returned unchanged.
func Format(s string) string {
	d := digits(s)
	switch {
	case strings.HasPrefix(d, CountryCode) && len(d) >= 10:
		return "+32 " + d[2:5] + " " + d[5:7] + " " + d[7:9] + " " + d[9:]
	case strings.HasPrefix(d, "0") && len(d) >= 9:
		return d[0:4] + " " + d[4:6] + " " + d[6:8] + " " + d[8:]
	}
	return s
}

// Valid reports whether raw looks like a dialable number once normalized.
func Valid(raw string) bool {
	return len(Normalize(raw)) >= 9
}

func digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
