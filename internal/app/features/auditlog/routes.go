package auditlog

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/audit.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
