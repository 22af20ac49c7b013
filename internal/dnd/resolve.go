package dnd

import (
	"context"
	"slices"

	"github.com/evanschultz/dndboard/internal/app"
	"github.com/evanschultz/dndboard/internal/domain"
)

// CommitKind identifies the store mutation a drop resolves to.
type CommitKind int

// CommitNone and related constants define commit kinds.
const (
	CommitNone CommitKind = iota
	CommitReorderCards
	CommitMoveCard
	CommitReorderColumns
)

// String returns a log-friendly commit kind name.
func (k CommitKind) String() string {
	switch k {
	case CommitReorderCards:
		return "reorder-cards"
	case CommitMoveCard:
		return "move-card"
	case CommitReorderColumns:
		return "reorder-columns"
	default:
		return "none"
	}
}

// Commit is the single mutation produced by a finished drag.
type Commit struct {
	Kind         CommitKind
	CardID       int
	ColumnID     int
	FromColumnID int
	ToColumnID   int
	Index        int
	CardIDs      []int
	ColumnIDs    []int
}

// IsNone reports whether the drop changes nothing.
func (c Commit) IsNone() bool {
	return c.Kind == CommitNone
}

// Resolve converts the final session into at most one mutation. The last preview is trusted as-is.
func Resolve(board domain.Board, session Session) Commit {
	if !session.HasPreview {
		return Commit{}
	}
	switch session.Kind {
	case KindColumn:
		from := board.ColumnIndex(session.DraggedID)
		if from < 0 || from == session.Preview.Index {
			return Commit{}
		}
		current := board.ColumnIDs()
		next := app.MoveIndex(current, from, session.Preview.Index)
		if slices.Equal(current, next) {
			return Commit{}
		}
		return Commit{Kind: CommitReorderColumns, ColumnIDs: next}
	case KindCard:
		if session.SourceColumnID != session.Preview.ColumnID {
			return Commit{
				Kind:         CommitMoveCard,
				CardID:       session.DraggedID,
				FromColumnID: session.SourceColumnID,
				ToColumnID:   session.Preview.ColumnID,
				Index:        session.Preview.Index,
			}
		}
		current := board.CardIDs(session.SourceColumnID)
		from := slices.Index(current, session.DraggedID)
		if from < 0 || from == session.Preview.Index {
			return Commit{}
		}
		next := app.MoveIndex(current, from, session.Preview.Index)
		if slices.Equal(current, next) {
			return Commit{}
		}
		return Commit{Kind: CommitReorderCards, ColumnID: session.SourceColumnID, CardIDs: next}
	default:
		return Commit{}
	}
}

// Action maps the commit to its store action.
func (c Commit) Action() (app.Action, bool) {
	switch c.Kind {
	case CommitReorderCards:
		return app.ReorderCardsInColumn{ColumnID: c.ColumnID, CardIDs: slices.Clone(c.CardIDs)}, true
	case CommitMoveCard:
		return app.MoveCard{CardID: c.CardID, FromColumnID: c.FromColumnID, ToColumnID: c.ToColumnID, Index: c.Index}, true
	case CommitReorderColumns:
		return app.ReorderColumns{ColumnIDs: slices.Clone(c.ColumnIDs)}, true
	default:
		return nil, false
	}
}

// Apply dispatches the commit's action exactly once. A none commit dispatches nothing.
func Apply(ctx context.Context, store app.BoardStore, c Commit) error {
	action, ok := c.Action()
	if !ok {
		return nil
	}
	return store.Dispatch(ctx, action)
}
