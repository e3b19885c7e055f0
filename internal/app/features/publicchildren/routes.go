// internal/app/features/publicchildren/routes.go
package publicchildren

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/public/children. Both lookups go through limit.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	if limit != nil {
		r.Use(limit)
	}
	r.Get("/search", h.ServeSearchByPhone)
	r.Get("/search-by-birth", h.ServeSearchByBirth)
	return r
}
