// Package navigation provides helpers for safe post-login redirects.
package navigation

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
)

// loopPrefixes are sign-in paths that must never be a return target.
var loopPrefixes = []string{"/login", "/logout", "/auth/"}

// ReturnPath reads the "return" query parameter and keeps it only when it is
// a local path outside the sign-in flow. Anything else yields fallback.
func ReturnPath(r *http.Request, fallback string) string {
	ret := urlutil.SafeReturn(query.Get(r, "return"), "", "")
	if !strings.HasPrefix(ret, "/") || strings.HasPrefix(ret, "//") {
		return fallback
	}
	for _, p := range loopPrefixes {
		if strings.HasPrefix(ret, p) {
			return fallback
		}
	}
	return ret
}
