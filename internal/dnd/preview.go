package dnd

import "github.com/evanschultz/dndboard/internal/domain"

// ComputePreview returns the tentative drop position for session over target.
//
// Hovering a card targets that card's index in the column holding it (insert before). Hovering a column's
// empty area targets its end. For column drags the preview is the hovered column's board position.
func ComputePreview(board domain.Board, session Session, target Target) (Preview, bool) {
	if target.IsZero() {
		return Preview{}, false
	}
	switch session.Kind {
	case KindCard:
		if target.CardID != 0 {
			columnIdx, cardIdx, ok := board.FindCard(target.CardID)
			if !ok {
				return Preview{}, false
			}
			return Preview{ColumnID: board.Columns[columnIdx].ID, Index: cardIdx}, true
		}
		column, ok := board.Column(target.ColumnID)
		if !ok {
			return Preview{}, false
		}
		return Preview{ColumnID: column.ID, Index: len(column.Items)}, true
	case KindColumn:
		columnID := target.ColumnID
		if target.CardID != 0 {
			columnIdx, _, ok := board.FindCard(target.CardID)
			if !ok {
				return Preview{}, false
			}
			columnID = board.Columns[columnIdx].ID
		}
		idx := board.ColumnIndex(columnID)
		if idx < 0 {
			return Preview{}, false
		}
		return Preview{ColumnID: columnID, Index: idx}, true
	default:
		return Preview{}, false
	}
}
