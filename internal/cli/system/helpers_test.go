package system

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/orowoletimothy/vane/internal/cli"
	"github.com/orowoletimothy/vane/internal/config"
	"github.com/orowoletimothy/vane/internal/storage/sqlite"
	"github.com/orowoletimothy/vane/internal/tracker"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestContext returns a command context over an uninitialised SQLite file
// in a temp directory.
func newTestContext(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "vane.db")

	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Default()
	ctx := &cli.Context{
		Ctx:          context.Background(),
		Store:        store,
		Tracker:      tracker.New(store, cfg, tracker.WithClock(func() time.Time { return testNow })),
		Config:       cfg,
		SettingsPath: filepath.Join(dir, "config.toml"),
		UserID:       "local",
	}
	return ctx, dbPath
}

// newLoadedContext is newTestContext with the schema applied.
func newLoadedContext(t *testing.T) (*cli.Context, string) {
	t.Helper()
	ctx, dbPath := newTestContext(t)
	if err := ctx.Store.Init(ctx.Ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx, dbPath
}
