package recaps_test

import (
	"net/http"
	"testing"
	"time"

	uierrors "github.com/dalemusser/patrohub/internal/app/features/errors"
	"github.com/dalemusser/patrohub/internal/app/features/recaps"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)

func sectionPtr(s models.Section) *models.Section { return &s }

type body struct {
	Kind       string           `json:"kind"`
	SchoolYear string           `json:"schoolYear"`
	Count      int              `json:"count"`
	Rows       []map[string]any `json:"rows"`
}

func serve(t *testing.T, h *recaps.Handler, kind, target string, user testutil.TestUser) *testutil.ResponseRecorder {
	t.Helper()
	req := testutil.NewAuthenticatedRequest(t, http.MethodGet, target, nil, user)
	rec := testutil.NewRecorder()
	h.ServeKind(rec, testutil.WithChiURLParam(req, "kind", kind))
	return rec
}

func TestServeKind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	logger := zap.NewNop()
	h := recaps.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	h.Now = func() time.Time { return fixedNow }

	ctx, cancel := testutil.TestContext()
	defer cancel()

	allergic := models.MedicalInfo{Allergies: models.Allergies{Has: true, List: "Arachides"}}
	p := fx.CreateParent(ctx, "Marie", "Dupont", "32477123456")
	kid := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 10), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	staff := fx.CreateChild(ctx, "Max", "Adam", testutil.Date(2005, 1, 1), models.GroupGarcons, sectionPtr(models.SectionBrothers), p.ID)
	girl := fx.CreateChild(ctx, "Emma", "Dupont", testutil.Date(2016, 5, 2), models.GroupFilles, sectionPtr(models.SectionEtincelles), p.ID)
	lastYear := fx.CreateChild(ctx, "Hugo", "Blanc", testutil.Date(2014, 1, 1), models.GroupGarcons, sectionPtr(models.SectionChevaliers), p.ID)
	fx.CreateRegistration(ctx, kid, "2025-2026", allergic)
	fx.CreateRegistration(ctx, staff, "2025-2026", allergic)
	fx.CreateRegistration(ctx, girl, "2025-2026", allergic)
	fx.CreateRegistration(ctx, lastYear, "2024-2025", allergic)

	user := testutil.AnimateurUser(models.GroupGarcons)

	rec := serve(t, h, "allergies", "/api/recaps/allergies", user)
	rec.AssertStatus(t, http.StatusOK)
	var got body
	rec.DecodeJSON(t, &got)
	if got.Count != 1 || len(got.Rows) != 1 || got.Rows[0]["firstName"] != "Lucas" {
		t.Fatalf("children recap = %+v", got)
	}
	if got.Rows[0]["parentPhone"] != "+32 477 12 34 56" {
		t.Errorf("row = %+v", got.Rows[0])
	}

	rec = serve(t, h, "allergies", "/api/recaps/allergies?animateurs=true", user)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if got.Count != 1 || got.Rows[0]["sectionLabel"] != "Animateur" {
		t.Errorf("animateurs recap = %+v", got)
	}

	rec = serve(t, h, "diets", "/api/recaps/diets", user)
	rec.AssertStatus(t, http.StatusOK)
	rec.DecodeJSON(t, &got)
	if got.Count != 0 || len(got.Rows) != 0 {
		t.Errorf("diets recap = %+v", got)
	}

	serve(t, h, "vaccins", "/api/recaps/vaccins", user).AssertStatus(t, http.StatusNotFound)
	serve(t, h, "allergies", "/api/recaps/allergies?section=SCOUTS", user).AssertStatus(t, http.StatusBadRequest)
}
