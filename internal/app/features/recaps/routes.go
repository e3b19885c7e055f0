// internal/app/features/recaps/routes.go
package recaps

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/recaps.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{kind}", h.ServeKind)
	return r
}
