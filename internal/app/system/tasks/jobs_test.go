package tasks_test

import (
	"testing"
	"time"

	"github.com/dalemusser/patrohub/internal/app/store/oauthstate"
	"github.com/dalemusser/patrohub/internal/app/system/tasks"
	"github.com/dalemusser/patrohub/internal/testutil"
	"go.uber.org/zap"
)

func TestOAuthStateCleanupJob(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := oauthstate.New(db)
	_ = store.Save(ctx, "expired", "", time.Now().Add(-time.Minute))

	job := tasks.OAuthStateCleanupJob(store, zap.NewNop())
	if job.Name != "oauth-state-cleanup" || job.Interval != time.Hour {
		t.Errorf("unexpected job definition: %+v", job)
	}
	if err := job.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	n, err := db.Collection("oauth_states").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Errorf("remaining states = %d, want 0", n)
	}
}
