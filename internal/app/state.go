package app

import "github.com/evanschultz/dndboard/internal/domain"

// columnState stores a column's scalar fields plus its card ordering.
type columnState struct {
	id      int
	title   string
	cardIDs []int
}

// boardState is one immutable generation of board state.
// Mutations copy the maps and replace whole slices; nothing reachable from a published state is written again.
type boardState struct {
	title       string
	columnOrder []int
	columns     map[int]columnState
	cards       map[int]domain.Card
}

// newBoardState indexes a board into id maps plus ordering lists.
func newBoardState(board domain.Board) *boardState {
	st := &boardState{
		title:       board.Title,
		columnOrder: make([]int, 0, len(board.Columns)),
		columns:     make(map[int]columnState, len(board.Columns)),
		cards:       make(map[int]domain.Card, board.CardCount()),
	}
	for _, column := range board.Columns {
		st.columnOrder = append(st.columnOrder, column.ID)
		st.columns[column.ID] = columnState{
			id:      column.ID,
			title:   column.Title,
			cardIDs: column.CardIDs(),
		}
		for _, card := range column.Items {
			st.cards[card.ID] = card.Clone()
		}
	}
	return st
}

// fork returns a shallow copy whose maps can be written without touching the receiver.
func (st *boardState) fork() *boardState {
	next := &boardState{
		title:       st.title,
		columnOrder: st.columnOrder,
		columns:     make(map[int]columnState, len(st.columns)),
		cards:       make(map[int]domain.Card, len(st.cards)),
	}
	for id, column := range st.columns {
		next.columns[id] = column
	}
	for id, card := range st.cards {
		next.cards[id] = card
	}
	return next
}

// board materializes the state as a detached domain board.
func (st *boardState) board() domain.Board {
	out := domain.Board{
		Title:   st.title,
		Columns: make([]domain.Column, 0, len(st.columnOrder)),
	}
	for _, columnID := range st.columnOrder {
		column := st.columns[columnID]
		items := make([]domain.Card, 0, len(column.cardIDs))
		for _, cardID := range column.cardIDs {
			items = append(items, st.cards[cardID].Clone())
		}
		out.Columns = append(out.Columns, domain.Column{
			ID:    column.id,
			Title: column.title,
			Items: items,
		})
	}
	return out
}

// columnOf returns the id of the column holding cardID.
func (st *boardState) columnOf(cardID int) (int, bool) {
	for _, columnID := range st.columnOrder {
		for _, id := range st.columns[columnID].cardIDs {
			if id == cardID {
				return columnID, true
			}
		}
	}
	return 0, false
}

// maxID returns the largest column or card id in use.
func (st *boardState) maxID() int {
	highest := 0
	for id := range st.columns {
		highest = max(highest, id)
	}
	for id := range st.cards {
		highest = max(highest, id)
	}
	return highest
}
