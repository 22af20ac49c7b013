package tui

import (
	"charm.land/lipgloss/v2"

	"github.com/evanschultz/dndboard/internal/dnd"
)

// board geometry shared by rendering and mouse hit testing.
const (
	// boardTop is the screen row of the first column border: header line plus one spacer.
	boardTop = 2
	// columnHeaderLines counts the title and rule lines at the top of each column body.
	columnHeaderLines = 2
	// columnMargin is the gap rendered to the right of every column.
	columnMargin = 1
)

// hitKind identifies what a screen cell belongs to.
type hitKind int

// hitNone and related constants define hit test results.
const (
	hitNone hitKind = iota
	hitHeader
	hitCard
	hitGap
	hitBody
)

// hit is one hit test result.
type hit struct {
	kind     hitKind
	columnID int
	cardID   int
}

// target converts a hit into the tracker's hover target. Gaps resolve to the card below them.
func (h hit) target() dnd.Target {
	switch h.kind {
	case hitCard, hitGap:
		return dnd.Target{ColumnID: h.columnID, CardID: h.cardID}
	case hitHeader, hitBody:
		return dnd.Target{ColumnID: h.columnID}
	default:
		return dnd.Target{}
	}
}

// columnBox is the on-screen rectangle of one column.
type columnBox struct {
	columnID int
	left     int
	right    int
	cardIDs  []int
}

// boardLayout records where each column was drawn.
type boardLayout struct {
	top     int
	height  int
	columns []columnBox
}

// layout computes the geometry of the current board for the current terminal size.
func (m Model) layout() boardLayout {
	width := m.columnWidth()
	outer := lipgloss.Width(columnStyle(lipgloss.Color("239"), width).Render(""))
	l := boardLayout{
		top:     boardTop,
		height:  m.columnHeight(),
		columns: make([]columnBox, 0, len(m.board.Columns)),
	}
	x := 0
	for _, column := range m.board.Columns {
		l.columns = append(l.columns, columnBox{
			columnID: column.ID,
			left:     x,
			right:    x + outer - columnMargin,
			cardIDs:  column.CardIDs(),
		})
		x += outer
	}
	return l
}

// cardRow returns the screen row of the card at idx within any column.
func (l boardLayout) cardRow(idx int) int {
	return l.top + 1 + columnHeaderLines + idx*2 + 1
}

// gapRow returns the screen row of the drop slot above the card at idx.
func (l boardLayout) gapRow(idx int) int {
	return l.top + 1 + columnHeaderLines + idx*2
}

// hitAt reports what is drawn at screen cell (x, y).
func (l boardLayout) hitAt(x, y int) hit {
	row := y - l.top
	if row < 0 || row >= l.height {
		return hit{}
	}
	for _, box := range l.columns {
		if x < box.left || x >= box.right {
			continue
		}
		line := row - 1
		if line < columnHeaderLines {
			return hit{kind: hitHeader, columnID: box.columnID}
		}
		slot := line - columnHeaderLines
		// The bottom border and the last visible lines map to the column area.
		if row == l.height-1 || slot >= len(box.cardIDs)*2 {
			return hit{kind: hitBody, columnID: box.columnID}
		}
		cardID := box.cardIDs[slot/2]
		if slot%2 == 1 {
			return hit{kind: hitCard, columnID: box.columnID, cardID: cardID}
		}
		return hit{kind: hitGap, columnID: box.columnID, cardID: cardID}
	}
	return hit{}
}
