// internal/app/features/camps/routes.go
package camps

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// PublicRoutes mounts under /api/public. Sign-ups go through limit.
func PublicRoutes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/camps", h.ServePublicList)
	r.Group(func(pr chi.Router) {
		if limit != nil {
			pr.Use(limit)
		}
		pr.Post("/camp-registrations", h.ServePublicRegister)
	})
	r.Get("/camp-registrations/{id}/payment-qr.png", h.ServePublicPaymentQR)
	return r
}

// Routes mounts under /api/camps. Callers wrap it with the staff auth
// middleware.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeDetail)
	r.Put("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Get("/{id}/recaps", h.ServeRecaps)
	r.Get("/{id}/recaps.pdf", h.ServeRecapsPDF)
	return r
}

// RegistrationRoutes mounts under /api/camp-registrations.
func RegistrationRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Patch("/{id}/payment", h.ServeSetPayment)
	return r
}
