package navigation_test

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/dalemusser/patrohub/internal/app/system/navigation"
)

func TestReturnPath(t *testing.T) {
	tests := []struct {
		ret  string
		want string
	}{
		{"", "/"},
		{"/dashboard/camps", "/dashboard/camps"},
		{"https://evil.example.com/", "/"},
		{"//evil.example.com", "/"},
		{"/login?error=x", "/"},
		{"/auth/google", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.ret, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/auth/google?return="+url.QueryEscape(tt.ret), nil)
			if got := navigation.ReturnPath(r, "/"); got != tt.want {
				t.Errorf("ReturnPath(%q) = %q, want %q", tt.ret, got, tt.want)
			}
		})
	}
}
