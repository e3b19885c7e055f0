// internal/app/features/recaps/handler.go
package recaps

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/queries/rosterqueries"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the allergy, diet and medication lists of the current
// school year.
type Handler struct {
	DB     *mongo.Database
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger
	Now    schoolyear.Clock
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Log: logger, ErrLog: errLog, Now: schoolyear.SystemClock}
}

type kindResponse struct {
	Kind       recaps.Kind `json:"kind"`
	Title      string      `json:"title"`
	SchoolYear string      `json:"schoolYear"`
	Count      int         `json:"count"`
	Rows       any         `json:"rows"`
}

// ServeKind handles GET /api/recaps/{kind}?group=&section=&animateurs=.
func (h *Handler) ServeKind(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}
	kind, ok := recaps.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		h.ErrLog.NotFound(w, "Récapitulatif inconnu.")
		return
	}
	f, ok := recaps.ParseFilter(query.Get(r, "section"), query.Get(r, "animateurs"))
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "unknown section filter", nil, "Section inconnue.")
		return
	}
	now := h.Now()
	year := schoolyear.Label(now)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	members, err := rosterqueries.Year(ctx, h.DB, rosterqueries.YearFilter{
		SchoolYear: year,
		Groups:     authz.ScopeGroups(s, normalize.Group(query.Get(r, "group"))),
		Section:    f.Section,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error loading recap", err, "Impossible de charger le récapitulatif.")
		return
	}
	rc := recaps.Build(rosterqueries.Entries(members), f, now)

	out := kindResponse{Kind: kind, Title: kind.Title(), SchoolYear: year, Count: rc.Len(kind)}
	switch kind {
	case recaps.KindAllergies:
		out.Rows = rc.Allergies
	case recaps.KindDiets:
		out.Rows = rc.Diets
	case recaps.KindMedications:
		out.Rows = rc.Medications
	}
	httpjson.OK(w, out)
}
