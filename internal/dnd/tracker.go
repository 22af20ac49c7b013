package dnd

import (
	"fmt"

	"github.com/evanschultz/dndboard/internal/domain"
)

// State identifies the tracker's position in the drag state machine.
type State int

// StateIdle and related constants define drag states.
const (
	StateIdle State = iota
	StateDraggingCard
	StateDraggingColumn
)

// String returns a log-friendly state name.
func (s State) String() string {
	switch s {
	case StateDraggingCard:
		return "dragging-card"
	case StateDraggingColumn:
		return "dragging-column"
	default:
		return "idle"
	}
}

// Kind identifies the dragged entity.
type Kind int

// KindNone and related constants define draggable entity kinds.
const (
	KindNone Kind = iota
	KindCard
	KindColumn
)

// Target describes what the pointer is over. CardID 0 means the column's own area; ColumnID 0 with CardID 0 means nothing.
type Target struct {
	ColumnID int
	CardID   int
}

// IsZero reports whether the target names nothing.
func (t Target) IsZero() bool {
	return t.ColumnID == 0 && t.CardID == 0
}

// Preview is the tentative drop position shown while dragging.
// For card drags Index is the insertion index in ColumnID; for column drags it is ColumnID's position on the board.
type Preview struct {
	ColumnID int
	Index    int
}

// Session is the transient record of one drag gesture.
type Session struct {
	Kind           Kind
	DraggedID      int
	SourceColumnID int
	Preview        Preview
	HasPreview     bool
}

// Tracker turns a stream of drag events into a single evolving preview. It never mutates board state.
type Tracker struct {
	state   State
	session Session
}

// NewTracker constructs an idle tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// State returns the current drag state.
func (t *Tracker) State() State {
	return t.state
}

// Active reports whether a drag is in progress.
func (t *Tracker) Active() bool {
	return t.state != StateIdle
}

// Session returns a copy of the current session.
func (t *Tracker) Session() Session {
	return t.session
}

// StartCard begins dragging a card, recording the column it currently lives in.
func (t *Tracker) StartCard(board domain.Board, cardID int) error {
	if t.Active() {
		return fmt.Errorf("start card %d drag in state %s: %w", cardID, t.state, ErrSessionActive)
	}
	columnIdx, _, ok := board.FindCard(cardID)
	if !ok {
		return fmt.Errorf("start card %d drag: %w", cardID, ErrUnknownEntity)
	}
	t.state = StateDraggingCard
	t.session = Session{
		Kind:           KindCard,
		DraggedID:      cardID,
		SourceColumnID: board.Columns[columnIdx].ID,
	}
	return nil
}

// StartColumn begins dragging a column.
func (t *Tracker) StartColumn(board domain.Board, columnID int) error {
	if t.Active() {
		return fmt.Errorf("start column %d drag in state %s: %w", columnID, t.state, ErrSessionActive)
	}
	if board.ColumnIndex(columnID) < 0 {
		return fmt.Errorf("start column %d drag: %w", columnID, ErrUnknownEntity)
	}
	t.state = StateDraggingColumn
	t.session = Session{
		Kind:      KindColumn,
		DraggedID: columnID,
	}
	return nil
}

// Over recomputes the preview for the hovered target. An invalid target clears the preview but keeps the drag alive.
func (t *Tracker) Over(board domain.Board, target Target) (Preview, bool) {
	if !t.Active() {
		return Preview{}, false
	}
	preview, ok := ComputePreview(board, t.session, target)
	t.session.Preview = preview
	t.session.HasPreview = ok
	return preview, ok
}

// End resolves the drop against board and returns the tracker to idle.
func (t *Tracker) End(board domain.Board) Commit {
	if !t.Active() {
		return Commit{}
	}
	commit := Resolve(board, t.session)
	t.reset()
	return commit
}

// Cancel abandons the drag without producing a commit.
func (t *Tracker) Cancel() {
	t.reset()
}

// reset clears every transient field.
func (t *Tracker) reset() {
	t.state = StateIdle
	t.session = Session{}
}
