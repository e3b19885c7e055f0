package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/patrohub/internal/app/store/audit"
	"github.com/dalemusser/patrohub/internal/app/system/auditlog"
	"github.com/dalemusser/patrohub/internal/app/system/authz"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "password", "a@b.be")
	logger.Logout(ctx, req, primitive.NewObjectID())
	logger.InscriptionCreated(ctx, req, models.Registration{})
}

func TestLogger_Modes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/login", nil)

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{
		Auth:         auditlog.ModeOff,
		Admin:        auditlog.ModeDB,
		Registration: auditlog.ModeLog,
	})

	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "password", "a@b.be")
	logger.InscriptionCreated(ctx, req, models.Registration{ID: primitive.NewObjectID(), Group: models.GroupFilles})
	actor := authz.Subject{UserID: primitive.NewObjectID(), Role: models.RoleAdmin}
	logger.Admin(ctx, req, actor, models.GroupGarcons, audit.EventCampCreated, map[string]string{"camp": "Été"})

	events, err := store.Query(ctx, audit.QueryFilter{})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected only the admin event in the store, got %d", len(events))
	}
	if events[0].EventType != audit.EventCampCreated || events[0].Group != "GARCONS" {
		t.Errorf("unexpected event %+v", events[0])
	}
	if events[0].ActorID == nil || *events[0].ActorID != actor.UserID {
		t.Error("expected actor id to be recorded")
	}
}
