package campstore_test

import (
	"errors"
	"testing"
	"time"

	campstore "github.com/dalemusser/patrohub/internal/app/store/camps"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestCreateUpdateDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := campstore.New(db)

	limit := 20
	c, err := store.Create(ctx, models.Camp{
		Name:            "  Camp d'été ",
		Location:        "Bouillon",
		StartDate:       testutil.Date(2026, 7, 10),
		EndDate:         testutil.Date(2026, 7, 20),
		Price:           150,
		Group:           models.GroupGarcons,
		MaxParticipants: &limit,
		IsPublic:        true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Camp d'été" || c.Sections == nil {
		t.Errorf("created = %+v", c)
	}

	c.Price = 175
	c.MaxParticipants = nil
	c.Sections = []models.Section{models.SectionChevaliers}
	updated, err := store.Update(ctx, c)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 175 || updated.MaxParticipants != nil || len(updated.Sections) != 1 {
		t.Errorf("updated = %+v", updated)
	}

	fx := testutil.NewFixtures(t, db)
	child := fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 1, 1), models.GroupGarcons, nil,
		fx.CreateParent(ctx, "A", "D", "32477123456").ID)
	if _, err := db.Collection("camp_registrations").InsertOne(ctx, models.CampRegistration{
		CampID: c.ID, ChildID: child.ID, Group: models.GroupGarcons, CreatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	if err := store.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	n, _ := db.Collection("camp_registrations").CountDocuments(ctx, bson.M{"camp_id": c.ID})
	if n != 0 {
		t.Errorf("registrations left after delete = %d", n)
	}
	if _, err := store.GetByID(ctx, c.ID); !errors.Is(err, campstore.ErrNotFound) {
		t.Errorf("GetByID after delete err = %v", err)
	}
	if err := store.Delete(ctx, c.ID); !errors.Is(err, campstore.ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestListAndListPublic(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := campstore.New(db)
	fx := testutil.NewFixtures(t, db)

	fx.CreateCamp(ctx, "G public", models.GroupGarcons, 100, 0)
	fx.CreateCamp(ctx, "F public", models.GroupFilles, 100, 0)
	private, err := store.Create(ctx, models.Camp{Name: "G privé", Group: models.GroupGarcons,
		StartDate: testutil.Date(2026, 8, 1), EndDate: testutil.Date(2026, 8, 5)})
	if err != nil {
		t.Fatal(err)
	}

	garcons, err := store.List(ctx, []models.Group{models.GroupGarcons})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(garcons) != 2 {
		t.Errorf("List(garcons) = %d camps, want 2", len(garcons))
	}

	all, err := store.ListPublic(ctx, nil)
	if err != nil {
		t.Fatalf("ListPublic: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("ListPublic(nil) = %d camps, want 2", len(all))
	}
	for _, c := range all {
		if c.ID == private.ID {
			t.Error("private camp listed publicly")
		}
	}

	g := models.GroupFilles
	filles, err := store.ListPublic(ctx, &g)
	if err != nil {
		t.Fatal(err)
	}
	if len(filles) != 1 || filles[0].Name != "F public" {
		t.Errorf("ListPublic(filles) = %+v", filles)
	}
}
