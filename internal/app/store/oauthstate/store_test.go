package oauthstate_test

import (
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/app/store/oauthstate"
	"github.com/dalemusser/patrohub/internal/testutil"
)

func TestStore_SaveAndConsume(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "state-1", "/api/me", time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ret, ok, err := store.Consume(ctx, "state-1")
	if err != nil {
		t.Fatalf("Consume failed: %v", err)
	}
	if !ok || ret != "/api/me" {
		t.Errorf("Consume = (%q, %v), want (/api/me, true)", ret, ok)
	}

	// One-time use.
	if _, ok, _ := store.Consume(ctx, "state-1"); ok {
		t.Error("state consumed twice")
	}
}

func TestStore_ConsumeExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.Save(ctx, "old", "", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, ok, err := store.Consume(ctx, "old"); err != nil || ok {
		t.Errorf("Consume(expired) = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestStore_CleanupExpired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := oauthstate.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_ = store.Save(ctx, "expired-1", "", time.Now().Add(-time.Hour))
	_ = store.Save(ctx, "expired-2", "", time.Now().Add(-time.Minute))
	_ = store.Save(ctx, "live", "", time.Now().Add(time.Hour))

	n, err := store.CleanupExpired(ctx)
	if err != nil {
		t.Fatalf("CleanupExpired failed: %v", err)
	}
	if n != 2 {
		t.Errorf("deleted %d, want 2", n)
	}
	if _, ok, _ := store.Consume(ctx, "live"); !ok {
		t.Error("live state should survive cleanup")
	}
}
