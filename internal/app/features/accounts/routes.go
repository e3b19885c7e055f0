package accounts

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/accounts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Patch("/{id}/status", h.ServeSetStatus)
	r.Put("/{id}/password", h.ServeResetPassword)
	return r
}
