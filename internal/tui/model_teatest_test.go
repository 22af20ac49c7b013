package tui

import (
	"slices"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/exp/teatest/v2"

	"github.com/evanschultz/dndboard/internal/app"
)

// TestModelWithTeatest verifies the board renders once the store hydrates and that q quits.
func TestModelWithTeatest(t *testing.T) {
	m := NewModel(newTestStore(t))
	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 35))
	t.Cleanup(func() {
		_ = tm.Quit()
	})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), "Try dragging this card")
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))
}

// TestModelWithTeatestMouseDrag verifies a full press, motion and release gesture commits one move.
func TestModelWithTeatestMouseDrag(t *testing.T) {
	store := newTestStore(t)
	m := NewModel(store)

	sized := m
	sized.ready = true
	sized.width, sized.height = 120, 35
	sized.board = app.SeedBoard()
	l := sized.layout()
	todo, progress := l.columns[0], l.columns[1]

	tm := teatest.NewTestModel(t, m, teatest.WithInitialTermSize(120, 35))
	t.Cleanup(func() {
		_ = tm.Quit()
	})

	teatest.WaitFor(t, tm.Output(), func(out []byte) bool {
		return strings.Contains(string(out), "Try dragging this card")
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(tea.MouseClickMsg{X: todo.left + 2, Y: l.cardRow(1), Button: tea.MouseLeft})
	tm.Send(tea.MouseMotionMsg{X: progress.left + 2, Y: l.cardRow(1), Button: tea.MouseLeft})
	tm.Send(tea.MouseMotionMsg{X: progress.left + 2, Y: l.cardRow(2), Button: tea.MouseLeft})
	tm.Send(tea.MouseReleaseMsg{X: progress.left + 2, Y: l.cardRow(2), Button: tea.MouseLeft})

	teatest.WaitFor(t, tm.Output(), func([]byte) bool {
		return slices.Equal(store.Snapshot().CardIDs(2), []int{6, 5})
	}, teatest.WithDuration(2*time.Second), teatest.WithCheckInterval(10*time.Millisecond))

	tm.Send(tea.KeyPressMsg{Code: 'q', Text: "q"})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	if got := store.Snapshot().CardIDs(1); !slices.Equal(got, []int{4}) {
		t.Fatalf("expected Todo to keep only card 4, got %v", got)
	}
}
