// internal/app/system/inputval/inputval.go
package inputval

import (
	"net/mail"
	"strings"

	"github.com/dalemusser/patrohub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidEmail accepts a bare addr-spec ("user@domain"). Display-name
// forms, whitespace and malformed dot placement are rejected.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndex(s, "@")
	local, domain := s[:at], s[at+1:]
	for _, part := range []string{local, domain} {
		if part == "" || strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// IsValidObjectID reports whether s is a 24-character hex ObjectID.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsValidAuthMethod reports whether s names a supported sign-in method.
func IsValidAuthMethod(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case models.AuthMethodPassword, models.AuthMethodGoogle:
		return true
	}
	return false
}

