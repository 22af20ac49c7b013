package app

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/evanschultz/dndboard/internal/domain"
)

func sampleBoard() domain.Board {
	created := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)
	return domain.Board{
		Title: "Roadmap",
		Columns: []domain.Column{
			{ID: 1, Title: "Todo", Items: []domain.Card{
				{ID: 4, Title: "Write docs", Description: "with **markdown**", Comments: []domain.Comment{
					{ID: "c-1", Text: "started", Author: "sam", CreatedAt: created},
					{ID: "c-2", Text: "anonymous", CreatedAt: created.Add(time.Minute)},
				}},
				{ID: 5, Title: "Ship", Comments: []domain.Comment{}},
			}},
			{ID: 2, Title: "Done", Items: []domain.Card{}},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	want := sampleBoard()
	raw, err := EncodeSnapshot(want)
	if err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if snap.Version != CurrentSnapshotVersion {
		t.Fatalf("expected version %d, got %d", CurrentSnapshotVersion, snap.Version)
	}
	if got := snap.Board(); !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch\n got %#v\nwant %#v", got, want)
	}
}

func TestSnapshotEnvelopeShape(t *testing.T) {
	raw, err := EncodeSnapshot(sampleBoard())
	if err != nil {
		t.Fatalf("EncodeSnapshot() error = %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if doc["version"] != float64(3) {
		t.Fatalf("expected version 3, got %#v", doc["version"])
	}
	state, _ := doc["state"].(map[string]any)
	if state["boardTitle"] != "Roadmap" {
		t.Fatalf("expected boardTitle in state, got %#v", state)
	}
	if state["nextId"] != float64(6) {
		t.Fatalf("expected nextId one past the largest id, got %#v", state["nextId"])
	}
	for _, key := range []string{`"items"`, `"comments"`, `"createdAt"`} {
		if !strings.Contains(string(raw), key) {
			t.Fatalf("expected %s in %s", key, raw)
		}
	}
}

func TestDecodeSnapshotMigratesVersionZero(t *testing.T) {
	raw := []byte(`{"state":{"columns":[{"id":1,"title":"Todo","items":[
		{"id":2,"title":"A","comments":"oops"},
		{"id":3,"title":"B"},
		{"id":4,"title":"C","comments":null}
	]}]},"version":0}`)
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	board := snap.Board()
	if board.Title != domain.DefaultBoardTitle {
		t.Fatalf("expected default board title, got %q", board.Title)
	}
	for _, card := range board.Columns[0].Items {
		if card.Comments == nil || len(card.Comments) != 0 {
			t.Fatalf("expected empty comments on card %d, got %#v", card.ID, card.Comments)
		}
	}
	if snap.Version != CurrentSnapshotVersion {
		t.Fatalf("expected migrated version, got %d", snap.Version)
	}
}

func TestDecodeSnapshotWithoutVersion(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"state":{"columns":[]}}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if snap.State.BoardTitle != domain.DefaultBoardTitle {
		t.Fatalf("expected default title, got %q", snap.State.BoardTitle)
	}
}

func TestDecodeSnapshotKeepsStoredTitle(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"state":{"boardTitle":"Mine","columns":[]},"version":1}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if snap.State.BoardTitle != "Mine" {
		t.Fatalf("expected stored title, got %q", snap.State.BoardTitle)
	}
}

func TestMigrateStateIsIdempotent(t *testing.T) {
	build := func() map[string]any {
		return map[string]any{
			"columns": []any{
				map[string]any{"id": 1, "title": "Todo", "items": []any{
					map[string]any{"id": 2, "title": "A", "comments": 7},
					map[string]any{"id": 3, "title": "B", "comments": []any{map[string]any{"id": "x"}}},
				}},
			},
		}
	}
	once := MigrateState(build(), 0)
	twice := MigrateState(MigrateState(build(), 0), 0)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("expected idempotent migration\nonce  %#v\ntwice %#v", once, twice)
	}
	current := MigrateState(build(), CurrentSnapshotVersion)
	if !reflect.DeepEqual(current, build()) {
		t.Fatalf("expected current-version state untouched, got %#v", current)
	}
}

func TestDecodeSnapshotNewerVersionLoadsAsIs(t *testing.T) {
	snap, err := DecodeSnapshot([]byte(`{"state":{"boardTitle":"Future","columns":[{"id":1,"title":"A","items":[]}]},"version":9}`))
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	if snap.Version != 9 || snap.State.BoardTitle != "Future" {
		t.Fatalf("unexpected snapshot %#v", snap)
	}
}

func TestDecodeSnapshotRejectsMalformed(t *testing.T) {
	tests := map[string]string{
		"not json":           `{oops`,
		"null document":      `null`,
		"missing state":      `{"version":2}`,
		"columns not array":  `{"state":{"columns":{}},"version":2}`,
		"column not object":  `{"state":{"columns":[1]},"version":2}`,
		"items not array":    `{"state":{"columns":[{"id":1,"title":"A","items":"x"}]},"version":2}`,
		"item not object":    `{"state":{"columns":[{"id":1,"title":"A","items":[true]}]},"version":2}`,
		"version not number": `{"state":{"columns":[]},"version":"two"}`,
		"fractional version": `{"state":{"columns":[]},"version":1.5}`,
		"duplicate card":     `{"state":{"columns":[{"id":1,"title":"A","items":[{"id":2,"title":"x"},{"id":2,"title":"y"}]}]},"version":2}`,
		"non-positive id":    `{"state":{"columns":[{"id":0,"title":"A","items":[]}]},"version":2}`,
		"nextId not integer": `{"state":{"columns":[],"nextId":"x"},"version":3}`,
		"id not integer":     `{"state":{"columns":[{"id":"one","title":"A","items":[]}]},"version":2}`,
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := DecodeSnapshot([]byte(raw)); !errors.Is(err, ErrMalformedSnapshot) {
				t.Fatalf("expected ErrMalformedSnapshot, got %v", err)
			}
		})
	}
}

func TestDecodeSnapshotAcceptsBlankTitles(t *testing.T) {
	raw := []byte(`{"state":{"boardTitle":"B","columns":[{"id":1,"title":" ","items":[{"id":2,"title":"","comments":[]}]}],"nextId":3},"version":3}`)
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshot() error = %v", err)
	}
	board := snap.Board()
	if len(board.Columns) != 1 || len(board.Columns[0].Items) != 1 {
		t.Fatalf("unexpected board %#v", board)
	}
	if err := ValidateBoard(board); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ValidateBoard to reject blank titles, got %v", err)
	}
}

func TestDecodeSnapshotNextID(t *testing.T) {
	tests := map[string]struct {
		raw  string
		want int
	}{
		"migrated from version 2": {`{"state":{"columns":[{"id":3,"title":"A","items":[{"id":9,"title":"x"}]}]},"version":2}`, 10},
		"stored counter kept":     {`{"state":{"columns":[{"id":3,"title":"A","items":[]}],"nextId":40},"version":3}`, 40},
		"stale counter raised":    {`{"state":{"columns":[{"id":3,"title":"A","items":[{"id":9,"title":"x"}]}],"nextId":2},"version":3}`, 10},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			snap, err := DecodeSnapshot([]byte(tc.raw))
			if err != nil {
				t.Fatalf("DecodeSnapshot() error = %v", err)
			}
			if snap.State.NextID != tc.want {
				t.Fatalf("expected nextId %d, got %d", tc.want, snap.State.NextID)
			}
		})
	}
}

func TestSnapshotYAMLRoundTrip(t *testing.T) {
	want := sampleBoard()
	raw, err := EncodeSnapshotYAML(want)
	if err != nil {
		t.Fatalf("EncodeSnapshotYAML() error = %v", err)
	}
	if !strings.Contains(string(raw), "boardTitle: Roadmap") {
		t.Fatalf("expected yaml field names, got\n%s", raw)
	}
	snap, err := DecodeSnapshotYAML(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshotYAML() error = %v", err)
	}
	if got := snap.Board(); !reflect.DeepEqual(got, want) {
		t.Fatalf("yaml round trip mismatch\n got %#v\nwant %#v", got, want)
	}
}

func TestDecodeSnapshotYAMLMigrates(t *testing.T) {
	raw := []byte(`
state:
  columns:
    - id: 1
      title: Todo
      items:
        - id: 2
          title: A
          comments: nope
`)
	snap, err := DecodeSnapshotYAML(raw)
	if err != nil {
		t.Fatalf("DecodeSnapshotYAML() error = %v", err)
	}
	board := snap.Board()
	if board.Title != domain.DefaultBoardTitle || len(board.Columns[0].Items[0].Comments) != 0 {
		t.Fatalf("unexpected migrated board %#v", board)
	}
}

func TestValidateBoard(t *testing.T) {
	if err := ValidateBoard(SeedBoard()); err != nil {
		t.Fatalf("ValidateBoard(seed) error = %v", err)
	}
	bad := domain.Board{Columns: []domain.Column{{ID: 0, Title: "A"}}}
	if err := ValidateBoard(bad); !errors.Is(err, ErrInvalidBoard) {
		t.Fatalf("expected ErrInvalidBoard, got %v", err)
	}
}
