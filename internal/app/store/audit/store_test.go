package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLog_FillsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLogout}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() || events[0].Timestamp.IsZero() {
		t.Error("expected id and timestamp to be set")
	}
}

func TestQuery_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	old := time.Now().UTC().Add(-48 * time.Hour)
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventCampCreated, Group: "FILLES"})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAdmin, EventType: audit.EventCampDeleted, Group: "GARCONS"})
	_ = store.Log(ctx, audit.Event{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &user, Timestamp: old})

	tests := []struct {
		name   string
		filter audit.QueryFilter
		want   int
	}{
		{"all", audit.QueryFilter{}, 3},
		{"by group", audit.QueryFilter{Groups: []string{"FILLES"}}, 1},
		{"by category", audit.QueryFilter{Category: audit.CategoryAdmin}, 2},
		{"by type", audit.QueryFilter{EventType: audit.EventCampDeleted}, 1},
		{"by user", audit.QueryFilter{UserID: &user}, 1},
		{"since", audit.QueryFilter{Since: ptrTime(time.Now().UTC().Add(-time.Hour))}, 2},
		{"limit", audit.QueryFilter{Limit: 1}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.Query(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Query failed: %v", err)
			}
			if len(events) != tt.want {
				t.Errorf("got %d events, want %d", len(events), tt.want)
			}
		})
	}
}

func ptrTime(t time.Time) *time.Time { return &t }
