package auditlog

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/patrohub/internal/app/features/shared/httpjson"
	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/app/system/inputval"
	"github.com/dalemusser/patrohub/internal/app/system/limits"
	"github.com/dalemusser/patrohub/internal/app/system/normalize"
	"github.com/dalemusser/patrohub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Item is one audit event as listed. Actor is the actor's name when the
// account still exists, else its id.
type Item struct {
	ID            string            `json:"id"`
	Timestamp     time.Time         `json:"timestamp"`
	Group         string            `json:"group,omitempty"`
	Category      string            `json:"category"`
	EventType     string            `json:"eventType"`
	Actor         string            `json:"actor,omitempty"`
	IP            string            `json:"ip"`
	Success       bool              `json:"success"`
	FailureReason string            `json:"failureReason,omitempty"`
	Details       map[string]string `json:"details,omitempty"`
}

// ServeList handles GET /api/audit?group=&category=&eventType=&since=&limit=.
//
// Admins see every event, auth events included. Presidents see the events
// recorded on their own group. Anyone else gets 403.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	s, ok := authz.SubjectFromRequest(r)
	if !ok {
		h.ErrLog.Unauthorized(w)
		return
	}

	f := audit.QueryFilter{
		Category:  normalize.QueryParam(query.Get(r, "category")),
		EventType: normalize.QueryParam(query.Get(r, "eventType")),
		Limit:     100,
	}
	if !s.IsAdmin() || query.Get(r, "group") != "" {
		for _, g := range authz.ScopeGroups(s, normalize.Group(query.Get(r, "group"))) {
			if authz.RequireConfigure(s, g) == nil {
				f.Groups = append(f.Groups, string(g))
			}
		}
		if len(f.Groups) == 0 {
			h.ErrLog.Forbidden(w, r, "")
			return
		}
	}
	if v := query.Get(r, "since"); v != "" {
		t, err := time.Parse(inputval.DateLayout, v)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "bad since date", err, "Date invalide (AAAA-MM-JJ).")
			return
		}
		f.Since = &t
	}
	if v := query.Get(r, "limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.ErrLog.LogBadRequest(w, r, "bad limit", err, "Limite invalide.")
			return
		}
		f.Limit = int64(min(n, limits.MaxAuditEvents))
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.Query(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing audit events", err, "Impossible de charger le journal.")
		return
	}

	seen := map[primitive.ObjectID]bool{}
	var ids []primitive.ObjectID
	for _, e := range events {
		if e.ActorID != nil && !seen[*e.ActorID] {
			seen[*e.ActorID] = true
			ids = append(ids, *e.ActorID)
		}
	}
	names, err := h.Users.Names(ctx, ids)
	if err != nil {
		h.Log.Warn("resolving audit actor names failed", zap.Error(err))
		names = nil
	}

	items := make([]Item, 0, len(events))
	for _, e := range events {
		it := Item{
			ID:            e.ID.Hex(),
			Timestamp:     e.Timestamp,
			Group:         e.Group,
			Category:      e.Category,
			EventType:     e.EventType,
			IP:            e.IP,
			Success:       e.Success,
			FailureReason: e.FailureReason,
			Details:       e.Details,
		}
		if e.ActorID != nil {
			it.Actor = e.ActorID.Hex()
			if n, ok := names[*e.ActorID]; ok {
				it.Actor = n
			}
		}
		items = append(items, it)
	}
	httpjson.OK(w, map[string]any{"events": items})
}
