package domain

// DefaultBoardTitle is used when a board has never been titled.
const DefaultBoardTitle = "Demo Board"

// Board is the full kanban state: a title plus ordered columns.
type Board struct {
	Title   string
	Columns []Column
}

// ColumnIndex returns the position of a column, or -1.
func (b Board) ColumnIndex(columnID int) int {
	for idx, column := range b.Columns {
		if column.ID == columnID {
			return idx
		}
	}
	return -1
}

// Column returns the column with the given id.
func (b Board) Column(columnID int) (Column, bool) {
	idx := b.ColumnIndex(columnID)
	if idx < 0 {
		return Column{}, false
	}
	return b.Columns[idx], true
}

// FindCard locates a card and reports the indexes of its column and of the card within it.
func (b Board) FindCard(cardID int) (columnIdx, cardIdx int, ok bool) {
	for ci, column := range b.Columns {
		if idx := column.CardIndex(cardID); idx >= 0 {
			return ci, idx, true
		}
	}
	return -1, -1, false
}

// Card returns the card with the given id.
func (b Board) Card(cardID int) (Card, bool) {
	ci, idx, ok := b.FindCard(cardID)
	if !ok {
		return Card{}, false
	}
	return b.Columns[ci].Items[idx], true
}

// ColumnIDs returns the column ids in display order.
func (b Board) ColumnIDs() []int {
	out := make([]int, 0, len(b.Columns))
	for _, column := range b.Columns {
		out = append(out, column.ID)
	}
	return out
}

// CardCount returns the number of cards across all columns.
func (b Board) CardCount() int {
	total := 0
	for _, column := range b.Columns {
		total += len(column.Items)
	}
	return total
}

// Clone deep-copies the board.
func (b Board) Clone() Board {
	out := Board{
		Title:   b.Title,
		Columns: make([]Column, 0, len(b.Columns)),
	}
	for _, column := range b.Columns {
		out.Columns = append(out.Columns, column.Clone())
	}
	return out
}

// CardIDs returns the card ids of one column in display order, or nil for an unknown column.
func (b Board) CardIDs(columnID int) []int {
	column, ok := b.Column(columnID)
	if !ok {
		return nil
	}
	return column.CardIDs()
}
