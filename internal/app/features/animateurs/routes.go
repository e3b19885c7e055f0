// internal/app/features/animateurs/routes.go
package animateurs

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/animateurs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	return r
}

// PublicRoutes mounts under /api/public/animateurs.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServePublicList)
	return r
}
