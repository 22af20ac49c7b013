package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/evanschultz/dndboard/internal/app"
)

func TestRepository_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "dndboard.db")
	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database file, stat error = %v", err)
	}

	now := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	if _, ok, err := repo.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}
	if err := repo.Put(ctx, "board", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	now = now.Add(time.Hour)
	if err := repo.Put(ctx, "board", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("Put(overwrite) error = %v", err)
	}
	got, ok, err := repo.Get(ctx, "board")
	if err != nil || !ok {
		t.Fatalf("Get() = ok %v, err %v", ok, err)
	}
	if string(got) != `{"v":2}` {
		t.Fatalf("expected overwritten value, got %s", got)
	}
	updated, ok, err := repo.UpdatedAt(ctx, "board")
	if err != nil || !ok || !updated.Equal(now) {
		t.Fatalf("UpdatedAt() = %v, %v, %v", updated, ok, err)
	}

	if err := repo.Delete(ctx, "board"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "board"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, ok, _ := repo.Get(ctx, "board"); ok {
		t.Fatal("expected key removed")
	}
}

func TestRepository_OpenValidation(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestRepository_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "dndboard.db")
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)

	repo, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	store := app.NewStore(repo, nil, nil, app.StoreConfig{Logger: logger})
	store.Rehydrate(ctx)
	columnID, err := store.AddColumn(ctx, "Backlog")
	if err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if _, err := store.AddCard(ctx, columnID, "Persisted card"); err != nil {
		t.Fatalf("AddCard() error = %v", err)
	}
	want := store.Snapshot()
	if err := repo.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open(reopen) error = %v", err)
	}
	t.Cleanup(func() {
		_ = reopened.Close()
	})
	again := app.NewStore(reopened, nil, nil, app.StoreConfig{Logger: logger})
	again.Rehydrate(ctx)
	got := again.Snapshot()
	if len(got.Columns) != len(want.Columns) || got.Columns[3].Title != "Backlog" || got.Columns[3].Items[0].Title != "Persisted card" {
		t.Fatalf("unexpected reloaded board %#v", got)
	}
}

func TestRepository_InMemory(t *testing.T) {
	ctx := context.Background()
	repo, err := OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() {
		_ = repo.Close()
	})
	key := "memory-" + t.Name()
	if err := repo.Put(ctx, key, []byte("x")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if got, ok, err := repo.Get(ctx, key); err != nil || !ok || string(got) != "x" {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}
}
