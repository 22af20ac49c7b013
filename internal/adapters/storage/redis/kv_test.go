package redis

import (
	"context"
	"errors"
	"io"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"

	"github.com/evanschultz/dndboard/internal/app"
)

func newTestRepository(t *testing.T) (*Repository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	repo, err := Open(context.Background(), Options{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo, mr
}

func TestRepositoryPutGetDelete(t *testing.T) {
	ctx := context.Background()
	repo, mr := newTestRepository(t)

	if _, ok, err := repo.Get(ctx, "board"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}
	if err := repo.Put(ctx, "board", []byte(`{"version":2}`)); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if got, _ := mr.Get("board"); got != `{"version":2}` {
		t.Fatalf("expected raw value in redis, got %q", got)
	}
	if mr.TTL("board") != 0 {
		t.Fatalf("expected no expiry, got %v", mr.TTL("board"))
	}
	got, ok, err := repo.Get(ctx, "board")
	if err != nil || !ok || string(got) != `{"version":2}` {
		t.Fatalf("Get() = %q, %v, %v", got, ok, err)
	}
	if err := repo.Delete(ctx, "board"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := repo.Delete(ctx, "board"); !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenRequiresAddr(t *testing.T) {
	if _, err := Open(context.Background(), Options{}); err == nil {
		t.Fatal("expected error for empty addr")
	}
}

func TestOpenFailsWhenServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	addr := mr.Addr()
	mr.Close()
	if _, err := Open(context.Background(), Options{Addr: addr}); err == nil {
		t.Fatal("expected ping failure")
	}
}

func TestStoreRehydratesFromRedis(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepository(t)
	logger := log.New(io.Discard)

	first := app.NewStore(repo, nil, nil, app.StoreConfig{Key: "team-board", Logger: logger})
	first.Rehydrate(ctx)
	if err := first.UpdateBoardTitle(ctx, "Team"); err != nil {
		t.Fatalf("UpdateBoardTitle() error = %v", err)
	}
	if err := first.ReorderColumns(ctx, []int{3, 2, 1}); err != nil {
		t.Fatalf("ReorderColumns() error = %v", err)
	}

	second := app.NewStore(repo, nil, nil, app.StoreConfig{Key: "team-board", Logger: logger})
	second.Rehydrate(ctx)
	board := second.Snapshot()
	if board.Title != "Team" {
		t.Fatalf("expected persisted title, got %q", board.Title)
	}
	if ids := board.ColumnIDs(); ids[0] != 3 || ids[2] != 1 {
		t.Fatalf("expected persisted column order, got %v", ids)
	}
}
