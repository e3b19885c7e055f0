package settingsstore_test

import (
	"testing"

	settingsstore "github.com/dalemusser/patrohub/internal/app/store/settings"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestGet_DefaultsWhenMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := settingsstore.New(db, 50)
	gs, err := store.Get(ctx, models.GroupFilles)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if gs.Group != models.GroupFilles || gs.RegistrationFee != 50 {
		t.Errorf("defaults = %+v", gs)
	}
	if gs.HasBankDetails() {
		t.Error("defaults should have no bank details")
	}

	if got := settingsstore.New(db, 0).Defaults(models.GroupGarcons).RegistrationFee; got != models.DefaultRegistrationFee {
		t.Errorf("built-in fee = %v, want %v", got, models.DefaultRegistrationFee)
	}
}

func TestSave_UpsertsPerGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := settingsstore.New(db, 45)
	by := primitive.NewObjectID()

	saved, err := store.Save(ctx, models.GroupSettings{
		Group:           models.GroupGarcons,
		RegistrationFee: 55,
		IBAN:            "BE56775595761388",
		Beneficiary:     "Patro Garçons",
		UpdatedByID:     &by,
		UpdatedByName:   "Admin",
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID.IsZero() || saved.UpdatedAt == nil {
		t.Errorf("saved = %+v", saved)
	}

	// Second save updates the same document.
	saved2, err := store.Save(ctx, models.GroupSettings{Group: models.GroupGarcons, RegistrationFee: 60})
	if err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if saved2.ID != saved.ID || saved2.RegistrationFee != 60 {
		t.Errorf("second save = %+v", saved2)
	}

	other, _ := store.Get(ctx, models.GroupFilles)
	if other.RegistrationFee != 45 {
		t.Errorf("other group changed: %+v", other)
	}
}
