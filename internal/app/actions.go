package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evanschultz/dndboard/internal/domain"
)

// Action is one atomic board mutation understood by Store.Dispatch.
type Action interface {
	// Name identifies the action in logs.
	Name() string
	apply(*mutation) error
}

// mutation carries the state being built by one action.
type mutation struct {
	state     *boardState
	changed   bool
	createdID int
	nextID    func() int
	commentID IDGenerator
	now       time.Time
	logger    *log.Logger
}

// UpdateBoardTitle replaces the board title.
type UpdateBoardTitle struct {
	Title string
}

// AddCard appends a new card to a column.
type AddCard struct {
	ColumnID int
	Title    string
}

// AddColumn appends a new empty column.
type AddColumn struct {
	Title string
}

// DeleteColumn removes a column and every card it holds.
type DeleteColumn struct {
	ColumnID int
}

// UpdateColumnTitle replaces a column title.
type UpdateColumnTitle struct {
	ColumnID int
	Title    string
}

// UpdateCardTitle replaces a card title.
type UpdateCardTitle struct {
	CardID int
	Title  string
}

// UpdateCardDescription replaces a card description.
type UpdateCardDescription struct {
	CardID      int
	Description string
}

// AddComment appends a timestamped comment to a card.
type AddComment struct {
	CardID int
	Text   string
	Author string
}

// MoveCard removes a card from one column and inserts it into another at Index.
type MoveCard struct {
	CardID       int
	FromColumnID int
	ToColumnID   int
	Index        int
}

// ReorderCardsInColumn re-sequences one column's cards by id.
type ReorderCardsInColumn struct {
	ColumnID int
	CardIDs  []int
}

// ReorderColumns re-sequences the board's columns by id.
type ReorderColumns struct {
	ColumnIDs []int
}

// ReplaceBoard swaps in a whole board, used by import and reset.
type ReplaceBoard struct {
	Board domain.Board
}

func (UpdateBoardTitle) Name() string      { return "update_board_title" }
func (AddCard) Name() string               { return "add_card" }
func (AddColumn) Name() string             { return "add_column" }
func (DeleteColumn) Name() string          { return "delete_column" }
func (UpdateColumnTitle) Name() string     { return "update_column_title" }
func (UpdateCardTitle) Name() string       { return "update_card_title" }
func (UpdateCardDescription) Name() string { return "update_card_description" }
func (AddComment) Name() string            { return "add_comment" }
func (MoveCard) Name() string              { return "move_card" }
func (ReorderCardsInColumn) Name() string  { return "reorder_cards_in_column" }
func (ReorderColumns) Name() string        { return "reorder_columns" }
func (ReplaceBoard) Name() string          { return "replace_board" }

func (a UpdateBoardTitle) apply(m *mutation) error {
	if m.state.title == a.Title {
		return nil
	}
	m.state.title = a.Title
	m.changed = true
	return nil
}

func (a AddCard) apply(m *mutation) error {
	column, ok := m.state.columns[a.ColumnID]
	if !ok {
		return fmt.Errorf("add card to column %d: %w", a.ColumnID, ErrNotFound)
	}
	id := m.nextID()
	m.state.cards[id] = domain.Card{ID: id, Title: a.Title, Comments: []domain.Comment{}}
	column.cardIDs = insertAt(column.cardIDs, len(column.cardIDs), id)
	m.state.columns[a.ColumnID] = column
	m.createdID = id
	m.changed = true
	return nil
}

func (a AddColumn) apply(m *mutation) error {
	id := m.nextID()
	m.state.columns[id] = columnState{id: id, title: a.Title, cardIDs: []int{}}
	m.state.columnOrder = insertAt(m.state.columnOrder, len(m.state.columnOrder), id)
	m.createdID = id
	m.changed = true
	return nil
}

func (a DeleteColumn) apply(m *mutation) error {
	column, ok := m.state.columns[a.ColumnID]
	if !ok {
		return fmt.Errorf("delete column %d: %w", a.ColumnID, ErrNotFound)
	}
	for _, cardID := range column.cardIDs {
		delete(m.state.cards, cardID)
	}
	delete(m.state.columns, a.ColumnID)
	m.state.columnOrder, _ = removeValue(m.state.columnOrder, a.ColumnID)
	m.changed = true
	return nil
}

func (a UpdateColumnTitle) apply(m *mutation) error {
	column, ok := m.state.columns[a.ColumnID]
	if !ok {
		return fmt.Errorf("update column %d title: %w", a.ColumnID, ErrNotFound)
	}
	if column.title == a.Title {
		return nil
	}
	column.title = a.Title
	m.state.columns[a.ColumnID] = column
	m.changed = true
	return nil
}

func (a UpdateCardTitle) apply(m *mutation) error {
	card, ok := m.state.cards[a.CardID]
	if !ok {
		return fmt.Errorf("update card %d title: %w", a.CardID, ErrNotFound)
	}
	if card.Title == a.Title {
		return nil
	}
	card.Title = a.Title
	m.state.cards[a.CardID] = card
	m.changed = true
	return nil
}

func (a UpdateCardDescription) apply(m *mutation) error {
	card, ok := m.state.cards[a.CardID]
	if !ok {
		return fmt.Errorf("update card %d description: %w", a.CardID, ErrNotFound)
	}
	if card.Description == a.Description {
		return nil
	}
	card.Description = a.Description
	m.state.cards[a.CardID] = card
	m.changed = true
	return nil
}

func (a AddComment) apply(m *mutation) error {
	card, ok := m.state.cards[a.CardID]
	if !ok {
		return fmt.Errorf("add comment to card %d: %w", a.CardID, ErrNotFound)
	}
	comment := domain.Comment{
		ID:        m.commentID(),
		Text:      a.Text,
		Author:    a.Author,
		CreatedAt: m.now.UTC(),
	}
	card.Comments = insertAt(card.Comments, len(card.Comments), comment)
	m.state.cards[a.CardID] = card
	m.changed = true
	return nil
}

func (a MoveCard) apply(m *mutation) error {
	from, ok := m.state.columns[a.FromColumnID]
	if !ok {
		m.logger.Debug("move ignored: unknown source column", "card_id", a.CardID, "from_column_id", a.FromColumnID)
		return nil
	}
	to, ok := m.state.columns[a.ToColumnID]
	if !ok {
		m.logger.Debug("move ignored: unknown destination column", "card_id", a.CardID, "to_column_id", a.ToColumnID)
		return nil
	}
	remaining, found := removeValue(from.cardIDs, a.CardID)
	if !found {
		m.logger.Debug("move ignored: card not in source column", "card_id", a.CardID, "from_column_id", a.FromColumnID)
		return nil
	}
	if a.FromColumnID == a.ToColumnID {
		next := insertAt(remaining, clamp(a.Index, 0, len(remaining)), a.CardID)
		if sameOrder(next, from.cardIDs) {
			return nil
		}
		from.cardIDs = next
		m.state.columns[a.FromColumnID] = from
		m.changed = true
		return nil
	}
	from.cardIDs = remaining
	to.cardIDs = insertAt(to.cardIDs, clamp(a.Index, 0, len(to.cardIDs)), a.CardID)
	m.state.columns[a.FromColumnID] = from
	m.state.columns[a.ToColumnID] = to
	m.changed = true
	return nil
}

func (a ReorderCardsInColumn) apply(m *mutation) error {
	column, ok := m.state.columns[a.ColumnID]
	if !ok {
		m.logger.Debug("reorder ignored: unknown column", "column_id", a.ColumnID)
		return nil
	}
	next, dropped := ReorderIDs(column.cardIDs, a.CardIDs)
	if dropped > 0 {
		m.logger.Warn("reorder dropped unknown card ids", "column_id", a.ColumnID, "dropped", dropped)
	}
	if sameOrder(next, column.cardIDs) {
		return nil
	}
	column.cardIDs = next
	m.state.columns[a.ColumnID] = column
	m.changed = true
	return nil
}

func (a ReorderColumns) apply(m *mutation) error {
	next, dropped := ReorderIDs(m.state.columnOrder, a.ColumnIDs)
	if dropped > 0 {
		m.logger.Warn("reorder dropped unknown column ids", "dropped", dropped)
	}
	if sameOrder(next, m.state.columnOrder) {
		return nil
	}
	m.state.columnOrder = next
	m.changed = true
	return nil
}

func (a ReplaceBoard) apply(m *mutation) error {
	if err := ValidateBoard(a.Board); err != nil {
		return err
	}
	m.state = newBoardState(a.Board)
	m.changed = true
	return nil
}
