// internal/app/features/inscriptions/paymentqr.go
package inscriptions

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/epcqr"
	"github.com/dalemusser/patrohub/internal/app/system/metrics"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const qrSize = 320

// ServePaymentQR handles GET /api/inscriptions/{id}/payment-qr.png. It
// renders the SEPA transfer of an unpaid registration for banking apps.
func (h *Handler) ServePaymentQR(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.NotFound(w, "Inscription introuvable.")
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
		h.ErrLog.LogServerError(w, r, "database error loading registration", err, "Impossible de générer le code QR.")
		return
	}
	if reg.IsPaid {
		h.ErrLog.NotFound(w, "Cette inscription est déjà payée.")
		return
	}

	gs, err := h.Settings.Get(ctx, reg.Group)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading settings", err, "Impossible de générer le code QR.")
		return
	}
	if !gs.HasBankDetails() {
		h.ErrLog.NotFound(w, "Aucun compte bancaire n'est configuré.")
		return
	}

	png, err := epcqr.PNG(epcqr.Transfer{
		BIC:         gs.BIC,
		Beneficiary: gs.Beneficiary,
		IBAN:        gs.IBAN,
		Amount:      reg.Amount,
		Reference:   reg.PaymentReference,
	}, qrSize)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render payment qr failed", err, "Impossible de générer le code QR.")
		return
	}
	metrics.DocumentsRendered.WithLabelValues("payment_qr").Inc()

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", fmt.Sprint(len(png)))
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}
