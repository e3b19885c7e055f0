// internal/app/features/children/routes.go
package children

import "github.com/go-chi/chi/v5"

// Routes mounts under /api/children.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeDetail)
	return r
}

// RegistrationRoutes mounts under /api/registrations.
func RegistrationRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Patch("/{id}/payment", h.ServeSetPayment)
	return r
}
