package inputval

import "testing"

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"parent@patro.be", true},
		{"marie.dupont@skynet.be", true},
		{"famille+camp@gmail.com", true},
		{"secretariat@fede.patro.be", true},
		{"x@y.be", true},
		{"staff@localhost", true},

		{"", false},
		{"  ", false},
		{"parent", false},
		{"parent@", false},
		{"@patro.be", false},
		{".marie@patro.be", false},
		{"marie.@patro.be", false},
		{"marie..dupont@patro.be", false},
		{"marie@.patro.be", false},
		{"marie@patro..be", false},
		{"Marie Dupont <marie@patro.be>", false},
		{"marie dupont@patro.be", false},
		{"marie@pat ro.be", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}
