package profile

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/profile.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Put("/password", h.ServeChangePassword)
	return r
}
