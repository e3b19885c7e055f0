// internal/app/features/inscriptions/routes.go
package inscriptions

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts under /api/inscriptions. limit throttles submissions per
// client IP; nil disables it.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		if limit != nil {
			pr.Use(limit)
		}
		pr.Post("/", h.ServeCreate)
	})
	r.Get("/{id}/payment-qr.png", h.ServePaymentQR)
	return r
}
