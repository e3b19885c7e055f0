package payref

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestInscription(t *testing.T) {
	got := Inscription("2025-2026", "Lucas", "Dupont")
	if got != "Cotisation 2025-2026 DUPONT Lucas" {
		t.Errorf("Inscription = %q", got)
	}
}

func TestCamp(t *testing.T) {
	id := uuid.MustParse("3f9a1c2b-0000-4000-8000-000000000000")
	got := Camp("Camp d'été 2026", "Emma", "Martin", id)
	if !strings.HasPrefix(got, "CAMP-") || !strings.Contains(got, " 3F9A1C2B MARTIN Emma") {
		t.Errorf("Camp = %q", got)
	}
	if strings.ContainsAny(got[:strings.Index(got, " ")], "'é ") {
		t.Errorf("camp slug not folded: %q", got)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Camp d'été", "CAMP-D-ETE"},
		{"  Week-end  ", "WEEK-END"},
		{strings.Repeat("a", 50), strings.Repeat("A", 30)},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClip(t *testing.T) {
	long := Inscription("2025-2026", strings.Repeat("é", 200), "X")
	if n := len([]rune(long)); n != maxLen {
		t.Errorf("len = %d, want %d", n, maxLen)
	}
}
