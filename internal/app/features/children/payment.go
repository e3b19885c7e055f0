// internal/app/features/children/payment.go
package children

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type paymentRequest struct {
	IsPaid *bool `json:"isPaid" validate:"required" label:"Statut de paiement"`
}

// ServeSetPayment handles PATCH /api/registrations/{id}/payment.
func (h *Handler) ServeSetPayment(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Inscription introuvable.")
		return
	}
	var in paymentRequest
	if err := httpjson.Decode(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode payment body failed", err, "Requête invalide.")
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	reg, err := h.Regs.GetByID(ctx, id)
	if errors.Is(err, registrationstore.ErrNotFound) {
		h.ErrLog.NotFound(w, "Inscription introuvable.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading registration", err, "Impossible de modifier le paiement.")
		return
	}
	if h.ErrLog.Policy(w, r, authz.RequireEdit(s, reg.Group)) {
		return
	}

	updated, err := h.Regs.SetPayment(ctx, id, *in.IsPaid)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error updating payment", err, "Impossible de modifier le paiement.")
		return
	}
	h.AuditLog.Admin(ctx, r, s, reg.Group, audit.EventPaymentStatusChanged, map[string]string{
		"registration_id": id.Hex(),
		"is_paid":         strconv.FormatBool(*in.IsPaid),
	})
	httpjson.OK(w, map[string]any{
		"id":     updated.ID.Hex(),
		"isPaid": updated.IsPaid,
		"paidAt": updated.PaidAt,
	})
}
