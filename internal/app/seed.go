package app

import "github.com/evanschultz/dndboard/internal/domain"

// SeedBoard returns the demo board used on first run and after a failed rehydration.
func SeedBoard() domain.Board {
	return domain.Board{
		Title: domain.DefaultBoardTitle,
		Columns: []domain.Column{
			{
				ID:    1,
				Title: "Todo",
				Items: []domain.Card{
					{ID: 4, Title: "Sketch the board layout", Description: "Columns left to right, cards top to bottom.", Comments: []domain.Comment{}},
					{ID: 5, Title: "Try dragging this card", Description: "Press, move, release. `esc` cancels.", Comments: []domain.Comment{}},
				},
			},
			{
				ID:    2,
				Title: "In Progress",
				Items: []domain.Card{
					{ID: 6, Title: "Persist the board", Description: "Every change is written as one snapshot.", Comments: []domain.Comment{}},
				},
			},
			{
				ID:    3,
				Title: "Done",
				Items: []domain.Card{},
			},
		},
	}
}
