// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/settings.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{group}", h.ServeGet)
	r.Put("/{group}", h.ServeUpdate)
	return r
}

// PublicRoutes mounts under /api/public/settings.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{group}", h.ServePublic)
	return r
}
