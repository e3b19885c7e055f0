package parentstore_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	parentstore "github.com/dalemusser/patrohub/internal/app/store/parents"
	"github.com/dalemusser/patrohub/internal/app/system/indexes"
	"github.com/dalemusser/patrohub/internal/domain/models"
	"github.com/dalemusser/patrohub/internal/testutil"
)

func newStore(t *testing.T) (*parentstore.Store, context.Context) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}
	return parentstore.New(db), ctx
}

func TestEnsure_CreatesThenReuses(t *testing.T) {
	store, ctx := newStore(t)

	p, created, err := store.Ensure(ctx, models.Parent{
		FirstName: "Anne", LastName: "Dupont", Phone: "0477 12 34 56", Email: "Anne@Example.be",
	}, true)
	if err != nil || !created {
		t.Fatalf("Ensure = %v, created=%v", err, created)
	}
	if p.Phone != "32477123456" || p.Email != "anne@example.be" {
		t.Errorf("not normalized: %+v", p)
	}

	// Same phone in another spelling, new email.
	again, created, err := store.Ensure(ctx, models.Parent{
		FirstName: "Other", LastName: "Name", Phone: "+32 477/12.34.56", Email: "new@example.be",
	}, true)
	if err != nil || created {
		t.Fatalf("second Ensure = %v, created=%v", err, created)
	}
	if again.ID != p.ID {
		t.Error("second Ensure created a new parent")
	}
	if again.Email != "new@example.be" || again.FirstName != "Anne" {
		t.Errorf("refresh = %+v, want new email and original names", again)
	}

	// Without refresh, the email stays.
	third, _, _ := store.Ensure(ctx, models.Parent{Phone: "0477123456", Email: "other@example.be"}, false)
	if third.Email != "new@example.be" {
		t.Errorf("email changed without refresh: %q", third.Email)
	}
}

func TestEnsure_BadPhone(t *testing.T) {
	store, ctx := newStore(t)
	if _, _, err := store.Ensure(ctx, models.Parent{FirstName: "A", LastName: "B", Phone: "12"}, false); !errors.Is(err, parentstore.ErrBadPhone) {
		t.Errorf("err = %v, want ErrBadPhone", err)
	}
}

func TestEnsure_ConcurrentSamePhone(t *testing.T) {
	store, ctx := newStore(t)

	const n = 8
	ids := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, _, err := store.Ensure(ctx, models.Parent{FirstName: "A", LastName: "B", Phone: "0478000000"}, false)
			if err != nil {
				t.Errorf("Ensure: %v", err)
				return
			}
			ids <- p.ID.Hex()
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[string]bool{}
	for id := range ids {
		seen[id] = true
	}
	if len(seen) != 1 {
		t.Errorf("concurrent Ensure produced %d parents, want 1", len(seen))
	}
}

func TestGetByPhone_NotFound(t *testing.T) {
	store, ctx := newStore(t)
	if _, err := store.GetByPhone(ctx, "0499999999"); !errors.Is(err, parentstore.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
