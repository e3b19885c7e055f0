// internal/app/features/documents/routes.go
package documents

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/documents.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/medical", h.ServeMedical)
	r.Get("/recaps.pdf", h.ServeRecapPDF)
	return r
}
