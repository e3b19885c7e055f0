// internal/app/features/publicchildren/handler.go
package publicchildren

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	parentstore "github.com/dalemusser/patrohub/internal/app/store/parents"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/recaps"
	"github.com/dalemusser/patrohub/internal/app/system/schoolyear"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the lookups families use to pick a child when signing up
// for a camp. Responses never carry contact or medical data.
type Handler struct {
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	Parents  *parentstore.Store
	Children *childstore.Store

	Now schoolyear.Clock
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:      logger,
		ErrLog:   errLog,
		Parents:  parentstore.New(db),
		Children: childstore.New(db),
		Now:      schoolyear.SystemClock,
	}
}

// ChildSummary is the public view of a child.
type ChildSummary struct {
	ID           string       `json:"id"`
	FirstName    string       `json:"firstName"`
	LastName     string       `json:"lastName"`
	BirthDate    string       `json:"birthDate"`
	Group        models.Group `json:"group"`
	SectionLabel string       `json:"sectionLabel"`
}

type searchResponse struct {
	Children []ChildSummary `json:"children"`
}

func (h *Handler) summarize(cs []models.Child) searchResponse {
	now := h.Now()
	out := searchResponse{Children: make([]ChildSummary, 0, len(cs))}
	for _, c := range cs {
		out.Children = append(out.Children, ChildSummary{
			ID:           c.ID.Hex(),
			FirstName:    c.FirstName,
			LastName:     c.LastName,
			BirthDate:    c.BirthDate.UTC().Format(inputval.DateLayout),
			Group:        c.Group,
			SectionLabel: recaps.SectionLabel(c, schoolyear.Age(c.BirthDate, now)),
		})
	}
	return out
}

type phoneQuery struct {
	Phone string `validate:"required,phonebe" label:"Téléphone"`
}

// ServeSearchByPhone handles GET /api/public/children/search?phone=.
// An unknown phone yields an empty list.
func (h *Handler) ServeSearchByPhone(w http.ResponseWriter, r *http.Request) {
	q := phoneQuery{Phone: strings.TrimSpace(query.Get(r, "phone"))}
	if res := inputval.Validate(q); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Parents.GetByPhone(ctx, q.Phone)
	if errors.Is(err, parentstore.ErrNotFound) {
		httpjson.OK(w, h.summarize(nil))
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error finding parent", err, "La recherche a échoué.")
		return
	}
	children, err := h.Children.ListByParent(ctx, p.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing children", err, "La recherche a échoué.")
		return
	}
	httpjson.OK(w, h.summarize(children))
}

type birthQuery struct {
	BirthDate string `validate:"required,isodate" label:"Date de naissance"`
	LastName  string `validate:"required,min=2,max=50" label:"Nom"`
}

// ServeSearchByBirth handles
// GET /api/public/children/search-by-birth?birthDate=&lastName=.
func (h *Handler) ServeSearchByBirth(w http.ResponseWriter, r *http.Request) {
	q := birthQuery{
		BirthDate: strings.TrimSpace(query.Get(r, "birthDate")),
		LastName:  strings.TrimSpace(query.Get(r, "lastName")),
	}
	if res := inputval.Validate(q); res.HasErrors() {
		h.ErrLog.Invalid(w, r, res)
		return
	}
	day, _ := time.Parse(inputval.DateLayout, q.BirthDate)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	children, err := h.Children.SearchByBirth(ctx, day, q.LastName)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error searching children", err, "La recherche a échoué.")
		return
	}
	httpjson.OK(w, h.summarize(children))
}
