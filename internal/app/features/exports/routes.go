package exports

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/exports. Group scoping happens in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/children.xlsx", h.ServeXLSX)
	r.Get("/children.csv", h.ServeCSV)
	return r
}
