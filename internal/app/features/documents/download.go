// internal/app/features/documents/download.go
package documents

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
)

func download(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

// slug folds s to lowercase ASCII words joined by dashes, for file names.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range text.Fold(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
