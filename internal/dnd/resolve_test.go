package dnd

import (
	"context"
	"errors"
	"reflect"
	"slices"
	"testing"

	"github.com/evanschultz/dndboard/internal/app"
	"github.com/evanschultz/dndboard/internal/domain"
)

type recordingStore struct {
	board   domain.Board
	actions []app.Action
	err     error
}

func (r *recordingStore) Snapshot() domain.Board { return r.board }

func (r *recordingStore) Dispatch(_ context.Context, action app.Action) error {
	r.actions = append(r.actions, action)
	return r.err
}

func (r *recordingStore) Subscribe(func(domain.Board)) func() { return func() {} }

func TestResolveColumnDragUsesArrayMove(t *testing.T) {
	board := threeColumnBoard()
	tr := NewTracker()
	if err := tr.StartColumn(board, 3); err != nil {
		t.Fatalf("StartColumn() error = %v", err)
	}
	tr.Over(board, Target{ColumnID: 1})
	commit := tr.End(board)
	if commit.Kind != CommitReorderColumns {
		t.Fatalf("expected reorder-columns, got %s", commit.Kind)
	}
	if !slices.Equal(commit.ColumnIDs, []int{3, 1, 2}) {
		t.Fatalf("expected [Done Todo InProgress], got %v", commit.ColumnIDs)
	}
}

func TestResolveNoops(t *testing.T) {
	board := threeColumnBoard()
	tests := []struct {
		name    string
		session Session
	}{
		{name: "no preview", session: Session{Kind: KindCard, DraggedID: 10, SourceColumnID: 1}},
		{name: "column onto itself", session: Session{Kind: KindColumn, DraggedID: 2, Preview: Preview{ColumnID: 2, Index: 1}, HasPreview: true}},
		{name: "card onto itself", session: Session{Kind: KindCard, DraggedID: 11, SourceColumnID: 1, Preview: Preview{ColumnID: 1, Index: 1}, HasPreview: true}},
		{name: "last card onto own column end", session: Session{Kind: KindCard, DraggedID: 12, SourceColumnID: 1, Preview: Preview{ColumnID: 1, Index: 3}, HasPreview: true}},
		{name: "card no longer in source", session: Session{Kind: KindCard, DraggedID: 20, SourceColumnID: 1, Preview: Preview{ColumnID: 1, Index: 0}, HasPreview: true}},
		{name: "column deleted", session: Session{Kind: KindColumn, DraggedID: 9, Preview: Preview{ColumnID: 1, Index: 0}, HasPreview: true}},
		{name: "no kind", session: Session{HasPreview: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if commit := Resolve(board, tc.session); !commit.IsNone() {
				t.Fatalf("expected no commit, got %#v", commit)
			}
		})
	}
}

func TestResolveSameColumnReorder(t *testing.T) {
	board := threeColumnBoard()
	tests := []struct {
		name    string
		dragged int
		index   int
		want    []int
	}{
		{name: "first onto last card", dragged: 10, index: 2, want: []int{11, 12, 10}},
		{name: "last onto first card", dragged: 12, index: 0, want: []int{12, 10, 11}},
		{name: "first onto column end", dragged: 10, index: 3, want: []int{11, 12, 10}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			commit := Resolve(board, Session{
				Kind:           KindCard,
				DraggedID:      tc.dragged,
				SourceColumnID: 1,
				Preview:        Preview{ColumnID: 1, Index: tc.index},
				HasPreview:     true,
			})
			if commit.Kind != CommitReorderCards || commit.ColumnID != 1 {
				t.Fatalf("unexpected commit %#v", commit)
			}
			if !slices.Equal(commit.CardIDs, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, commit.CardIDs)
			}
		})
	}
}

func TestResolveCrossColumnTrustsPreviewIndex(t *testing.T) {
	board := threeColumnBoard()
	session := Session{Kind: KindCard, DraggedID: 10, SourceColumnID: 1, Preview: Preview{ColumnID: 2, Index: 1}, HasPreview: true}
	board.Columns[1].Items = nil
	commit := Resolve(board, session)
	want := Commit{Kind: CommitMoveCard, CardID: 10, FromColumnID: 1, ToColumnID: 2, Index: 1}
	if !reflect.DeepEqual(commit, want) {
		t.Fatalf("expected %#v, got %#v", want, commit)
	}
}

func TestApplyDispatchesExactlyOnce(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name   string
		commit Commit
		want   app.Action
	}{
		{name: "move", commit: Commit{Kind: CommitMoveCard, CardID: 1, FromColumnID: 2, ToColumnID: 3, Index: 4}, want: app.MoveCard{CardID: 1, FromColumnID: 2, ToColumnID: 3, Index: 4}},
		{name: "reorder cards", commit: Commit{Kind: CommitReorderCards, ColumnID: 1, CardIDs: []int{2, 1}}, want: app.ReorderCardsInColumn{ColumnID: 1, CardIDs: []int{2, 1}}},
		{name: "reorder columns", commit: Commit{Kind: CommitReorderColumns, ColumnIDs: []int{3, 1, 2}}, want: app.ReorderColumns{ColumnIDs: []int{3, 1, 2}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &recordingStore{}
			if err := Apply(ctx, store, tc.commit); err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if len(store.actions) != 1 || !reflect.DeepEqual(store.actions[0], tc.want) {
				t.Fatalf("expected single %#v, got %#v", tc.want, store.actions)
			}
		})
	}

	store := &recordingStore{}
	if err := Apply(ctx, store, Commit{}); err != nil {
		t.Fatalf("Apply(none) error = %v", err)
	}
	if len(store.actions) != 0 {
		t.Fatalf("expected no dispatch for none commit, got %#v", store.actions)
	}

	boom := errors.New("boom")
	failing := &recordingStore{err: boom}
	if err := Apply(ctx, failing, Commit{Kind: CommitReorderColumns, ColumnIDs: []int{1}}); !errors.Is(err, boom) {
		t.Fatalf("expected dispatch error, got %v", err)
	}
}

func TestDragAgainstRealStore(t *testing.T) {
	ctx := context.Background()
	store := app.NewStore(nil, nil, nil, app.StoreConfig{})
	if err := store.ReplaceBoard(ctx, threeColumnBoard()); err != nil {
		t.Fatalf("ReplaceBoard() error = %v", err)
	}

	tr := NewTracker()
	board := store.Snapshot()
	if err := tr.StartCard(board, 11); err != nil {
		t.Fatalf("StartCard() error = %v", err)
	}
	tr.Over(board, Target{CardID: 20})
	before := store.Snapshot()
	if !reflect.DeepEqual(before, board) {
		t.Fatal("expected drag-over to leave the store untouched")
	}
	if err := Apply(ctx, store, tr.End(store.Snapshot())); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	after := store.Snapshot()
	if got := after.CardIDs(1); !slices.Equal(got, []int{10, 12}) {
		t.Fatalf("expected Todo [10 12], got %v", got)
	}
	if got := after.CardIDs(2); !slices.Equal(got, []int{11, 20}) {
		t.Fatalf("expected In Progress [11 20], got %v", got)
	}

	if err := tr.StartColumn(after, 3); err != nil {
		t.Fatalf("StartColumn() error = %v", err)
	}
	tr.Over(after, Target{ColumnID: 1})
	if err := Apply(ctx, store, tr.End(store.Snapshot())); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if got := store.Snapshot().ColumnIDs(); !slices.Equal(got, []int{3, 1, 2}) {
		t.Fatalf("expected columns [3 1 2], got %v", got)
	}
}
