package childstore_test

import (
	"errors"
	"fmt"
	"testing"

	childstore "github.com/dalemusser/patrohub/internal/app/store/children"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sec(s models.Section) *models.Section { return &s }

func TestCreateAndFindExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := childstore.New(db)

	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	birth := testutil.Date(2015, 3, 1)

	c, err := store.Create(ctx, models.Child{
		FirstName: " Lucas ", LastName: "Dupont", BirthDate: birth,
		Group: models.GroupGarcons, Section: sec(models.SectionChevaliers),
		PostalCode: "7850 ", Parent1ID: p1, Parent2ID: &p2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.FirstName != "Lucas" || c.LastNameCI != "dupont" || c.PostalCode != "7850" {
		t.Errorf("not normalized: %+v", c)
	}

	// Matched through the second parent, names in another case.
	got, err := store.FindExisting(ctx, "LUCAS", "dupont", birth, []primitive.ObjectID{p2})
	if err != nil {
		t.Fatalf("FindExisting: %v", err)
	}
	if got.ID != c.ID {
		t.Error("FindExisting returned another child")
	}

	// Unrelated parent: no match.
	if _, err := store.FindExisting(ctx, "Lucas", "Dupont", birth, []primitive.ObjectID{primitive.NewObjectID()}); !errors.Is(err, childstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListByParentAndSearchByBirth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	store := childstore.New(db)

	parent := fx.CreateParent(ctx, "Anne", "Dupont", "32477123456")
	fx.CreateChild(ctx, "Lucas", "Dupont", testutil.Date(2015, 3, 1), models.GroupGarcons, nil, parent.ID)
	fx.CreateChild(ctx, "Emma", "Dupont", testutil.Date(2017, 6, 9), models.GroupFilles, nil, parent.ID)
	fx.CreateChild(ctx, "Zoé", "Martin", testutil.Date(2015, 3, 1), models.GroupFilles, nil, primitive.NewObjectID())

	kids, err := store.ListByParent(ctx, parent.ID)
	if err != nil || len(kids) != 2 {
		t.Fatalf("ListByParent = %d, %v; want 2", len(kids), err)
	}
	if kids[0].FirstName != "Emma" {
		t.Errorf("order = %s, %s; want by first name within last name", kids[0].FirstName, kids[1].FirstName)
	}

	born, err := store.SearchByBirth(ctx, testutil.Date(2015, 3, 1), "")
	if err != nil || len(born) != 2 {
		t.Fatalf("SearchByBirth = %d, %v; want 2", len(born), err)
	}
	born, _ = store.SearchByBirth(ctx, testutil.Date(2015, 3, 1), "MARTIN")
	if len(born) != 1 || born[0].FirstName != "Zoé" {
		t.Errorf("SearchByBirth with last name = %+v", born)
	}
}

func TestList_KeysetPaging(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx := testutil.NewFixtures(t, db)
	store := childstore.New(db)

	parent := primitive.NewObjectID()
	for i := 0; i < 60; i++ {
		fx.CreateChild(ctx, "Kid", fmt.Sprintf("Name%02d", i), testutil.Date(2014, 1, 1), models.GroupGarcons, sec(models.SectionChevaliers), parent)
	}
	fx.CreateChild(ctx, "Other", "Fille", testutil.Date(2014, 1, 1), models.GroupFilles, nil, parent)

	groups := []models.Group{models.GroupGarcons}
	first, err := store.List(ctx, childstore.ListFilter{Groups: groups})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(first.Children) != 50 || !first.HasNext || first.HasPrev {
		t.Fatalf("first page = %d rows, next=%v prev=%v", len(first.Children), first.HasNext, first.HasPrev)
	}

	second, err := store.List(ctx, childstore.ListFilter{Groups: groups, After: first.NextCursor})
	if err != nil {
		t.Fatalf("List after: %v", err)
	}
	if len(second.Children) != 10 || second.HasNext || !second.HasPrev {
		t.Fatalf("second page = %d rows, next=%v prev=%v", len(second.Children), second.HasNext, second.HasPrev)
	}
	if second.Children[0].LastName != "Name50" {
		t.Errorf("second page starts at %s, want Name50", second.Children[0].LastName)
	}

	back, err := store.List(ctx, childstore.ListFilter{Groups: groups, Before: second.PrevCursor})
	if err != nil {
		t.Fatalf("List before: %v", err)
	}
	if len(back.Children) != 50 || back.Children[0].LastName != "Name00" || back.Children[49].LastName != "Name49" {
		t.Errorf("backward page = %d rows from %s", len(back.Children), back.Children[0].LastName)
	}

	q, _ := store.List(ctx, childstore.ListFilter{Groups: groups, Query: "name05"})
	if len(q.Children) != 1 {
		t.Errorf("query matched %d, want 1", len(q.Children))
	}
}
