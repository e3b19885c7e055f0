package registrationstore_test

import (
	"context"
	"errors"
	"testing"

	registrationstore "github.com/dalemusser/patrohub/internal/app/store/registrations"
	"github.com/dalemusser/patrohub/internal/app/system/indexes"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
)

func setup(t *testing.T) (*mongo.Database, *registrationstore.Store, *testutil.Fixtures, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return db, registrationstore.New(db), testutil.NewFixtures(t, db), ctx
}

func sec(s models.Section) *models.Section { return &s }

func TestCreate_OnePerChildAndYear(t *testing.T) {
	_, store, fx, ctx := setup(t)
	p := fx.CreateParent(ctx, "Anne", "Dupont", "32477123456")
	c := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 1), models.GroupGarcons, nil, p.ID)

	reg := models.Registration{ChildID: c.ID, Group: c.Group, SchoolYear: "2025-2026", Amount: 45, IsPaid: true}
	got, err := store.Create(ctx, reg)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.IsPaid {
		t.Error("new registrations start unpaid")
	}

	if _, err := store.Create(ctx, reg); !errors.Is(err, registrationstore.ErrDuplicateRegistration) {
		t.Errorf("err = %v, want ErrDuplicateRegistration", err)
	}

	reg.SchoolYear = "2026-2027"
	if _, err := store.Create(ctx, reg); err != nil {
		t.Errorf("next year: %v", err)
	}

	found, err := store.GetForChild(ctx, c.ID, "2025-2026")
	if err != nil || found.ID != got.ID {
		t.Errorf("GetForChild = %v, %v", found, err)
	}
}

func TestSetPayment(t *testing.T) {
	_, store, fx, ctx := setup(t)
	c := fx.CreateChild(ctx, "Emma", "Martin", testutil.Date(2016, 1, 1), models.GroupFilles, nil, fx.CreateParent(ctx, "P", "M", "32478000000").ID)
	reg := fx.CreateRegistration(ctx, c, "2025-2026", models.MedicalInfo{})

	paid, err := store.SetPayment(ctx, reg.ID, true)
	if err != nil {
		t.Fatalf("SetPayment(true): %v", err)
	}
	if !paid.IsPaid || paid.PaidAt == nil {
		t.Errorf("paid = %+v", paid)
	}

	unpaid, err := store.SetPayment(ctx, reg.ID, false)
	if err != nil {
		t.Fatalf("SetPayment(false): %v", err)
	}
	if unpaid.IsPaid || unpaid.PaidAt != nil {
		t.Errorf("unpaid = %+v", unpaid)
	}
}

func TestStats(t *testing.T) {
	_, store, fx, ctx := setup(t)
	p := fx.CreateParent(ctx, "Anne", "Dupont", "32477123456")

	a := fx.CreateChild(ctx, "A", "A", testutil.Date(2015, 1, 1), models.GroupGarcons, sec(models.SectionChevaliers), p.ID)
	b := fx.CreateChild(ctx, "B", "B", testutil.Date(2015, 1, 1), models.GroupGarcons, sec(models.SectionChevaliers), p.ID)
	c := fx.CreateChild(ctx, "C", "C", testutil.Date(2015, 1, 1), models.GroupFilles, sec(models.SectionEtincelles), p.ID)

	ra := fx.CreateRegistration(ctx, a, "2025-2026", models.MedicalInfo{})
	fx.CreateRegistration(ctx, b, "2025-2026", models.MedicalInfo{})
	fx.CreateRegistration(ctx, c, "2025-2026", models.MedicalInfo{})
	fx.CreateRegistration(ctx, a, "2024-2025", models.MedicalInfo{})
	if _, err := store.SetPayment(ctx, ra.ID, true); err != nil {
		t.Fatal(err)
	}

	stats, err := store.Stats(ctx, "2025-2026", []models.Group{models.GroupGarcons})
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("stats rows = %d, want 1 (garcons only): %+v", len(stats), stats)
	}
	st := stats[0]
	if st.Section != models.SectionChevaliers || st.Count != 2 || st.PaidCount != 1 {
		t.Errorf("stat = %+v", st)
	}
	if st.PaidTotal != models.DefaultRegistrationFee || st.UnpaidTotal != models.DefaultRegistrationFee {
		t.Errorf("totals = %v / %v", st.PaidTotal, st.UnpaidTotal)
	}
}
