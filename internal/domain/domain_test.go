package domain

import (
	"errors"
	"testing"
)

func TestNewColumnAndCardValidation(t *testing.T) {
	if _, err := NewColumn(0, "Todo"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewColumn(1, "   "); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
	if _, err := NewCard(-3, "ok"); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
	if _, err := NewCard(3, "\t"); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}

	column, err := NewColumn(1, "  Todo  ")
	if err != nil {
		t.Fatalf("NewColumn() error = %v", err)
	}
	if column.Title != "Todo" || column.Items == nil || len(column.Items) != 0 {
		t.Fatalf("unexpected column %#v", column)
	}
	card, err := NewCard(2, " Write tests ")
	if err != nil {
		t.Fatalf("NewCard() error = %v", err)
	}
	if card.Title != "Write tests" || card.Comments == nil {
		t.Fatalf("unexpected card %#v", card)
	}
}

func TestBoardLookups(t *testing.T) {
	board := Board{
		Title: "B",
		Columns: []Column{
			{ID: 1, Title: "Todo", Items: []Card{{ID: 10, Title: "a"}, {ID: 11, Title: "b"}}},
			{ID: 2, Title: "Done", Items: []Card{{ID: 12, Title: "c"}}},
		},
	}
	if got := board.ColumnIndex(2); got != 1 {
		t.Fatalf("ColumnIndex(2) = %d, want 1", got)
	}
	if got := board.ColumnIndex(99); got != -1 {
		t.Fatalf("ColumnIndex(99) = %d, want -1", got)
	}
	ci, idx, ok := board.FindCard(11)
	if !ok || ci != 0 || idx != 1 {
		t.Fatalf("FindCard(11) = %d,%d,%t", ci, idx, ok)
	}
	if _, _, ok := board.FindCard(404); ok {
		t.Fatal("expected unknown card lookup to fail")
	}
	if got := board.ColumnIDs(); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected column ids %#v", got)
	}
	if got := board.Columns[0].CardIDs(); len(got) != 2 || got[0] != 10 || got[1] != 11 {
		t.Fatalf("unexpected card ids %#v", got)
	}
	if got := board.CardCount(); got != 3 {
		t.Fatalf("CardCount() = %d, want 3", got)
	}
}

func TestBoardCloneIsDeep(t *testing.T) {
	board := Board{
		Title: "B",
		Columns: []Column{
			{ID: 1, Title: "Todo", Items: []Card{{ID: 10, Title: "a", Comments: []Comment{{ID: "x", Text: "hi"}}}}},
		},
	}
	clone := board.Clone()
	clone.Columns[0].Title = "changed"
	clone.Columns[0].Items[0].Title = "changed"
	clone.Columns[0].Items[0].Comments[0].Text = "changed"
	if board.Columns[0].Title != "Todo" || board.Columns[0].Items[0].Title != "a" {
		t.Fatalf("clone mutated source board %#v", board)
	}
	if board.Columns[0].Items[0].Comments[0].Text != "hi" {
		t.Fatalf("clone mutated source comments %#v", board.Columns[0].Items[0].Comments)
	}
}
