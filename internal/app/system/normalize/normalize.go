// internal/app/system/normalize/normalize.go
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a person or place name. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// AuthMethod lowercases and trims an auth method value.
func AuthMethod(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Status lowercases and trims a user status.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role uppercases a role value to its stored form.
func Role(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Group uppercases a group filter. "all" (any case) means no filter and
// becomes "".
func Group(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return strings.ToUpper(s)
}

// Section uppercases a section value to its stored form.
func Section(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// QueryParam trims a query string value. Case is preserved.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// Postal removes all whitespace from a postal code.
func Postal(s string) string {
	return strings.Join(strings.Fields(s), "")
}

// IBAN uppercases an IBAN and strips the spaces it is usually printed with.
func IBAN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}
