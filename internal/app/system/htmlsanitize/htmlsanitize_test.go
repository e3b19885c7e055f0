package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/patrohub/internal/app/system/htmlsanitize"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      string
		forbidden string
	}{
		{name: "empty", input: "", want: ""},
		{name: "plain text", input: "Réunion le samedi", want: "Réunion le samedi"},
		{name: "formatting kept", input: "<p><strong>14h</strong> - <em>17h</em></p>", want: "<p><strong>14h</strong> - <em>17h</em></p>"},
		{name: "script removed", input: "<p>Salut</p><script>alert('xss')</script>", want: "<p>Salut</p>"},
		{name: "onclick removed", input: `<b onclick="alert(1)">x</b>`, forbidden: "onclick"},
		{name: "javascript href removed", input: `<a href="javascript:alert(1)">x</a>`, forbidden: "javascript:"},
		{name: "iframe removed", input: `<iframe src="https://evil.example"></iframe>ok`, forbidden: "iframe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := htmlsanitize.Sanitize(tt.input)
			if tt.forbidden != "" {
				if strings.Contains(got, tt.forbidden) {
					t.Errorf("Sanitize(%q) = %q, still contains %q", tt.input, got, tt.forbidden)
				}
				return
			}
			if got != tt.want {
				t.Errorf("Sanitize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitize_AllowsTables(t *testing.T) {
	input := `<table><tr><td colspan="2">Lundi</td></tr></table>`
	got := htmlsanitize.Sanitize(input)
	if !strings.Contains(got, `colspan="2"`) || !strings.Contains(got, "<table>") {
		t.Errorf("table markup lost: %q", got)
	}
}

func TestSanitizeToHTML(t *testing.T) {
	got := string(htmlsanitize.SanitizeToHTML(`<p onclick="x()">Bonjour</p>`))
	if got != "<p>Bonjour</p>" {
		t.Errorf("SanitizeToHTML = %q", got)
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"Arachides", "Arachides"},
		{"<b>Arachides</b> &amp; noix", "Arachides & noix"},
		{"  <script>x</script>Lait  ", "Lait"},
	}
	for _, tt := range tests {
		if got := htmlsanitize.PlainText(tt.input); got != tt.want {
			t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
