package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/evanschultz/dndboard/internal/app"
	"github.com/evanschultz/dndboard/internal/domain"
)

// boardChangedMsg carries a board published by the store.
type boardChangedMsg struct {
	board domain.Board
}

// boardFeed bridges store notifications into the program. Only the latest board is kept.
type boardFeed struct {
	updates chan domain.Board
	stop    func()
}

// newBoardFeed subscribes to store and buffers its notifications.
func newBoardFeed(store app.BoardStore) *boardFeed {
	f := &boardFeed{updates: make(chan domain.Board, 1)}
	f.stop = store.Subscribe(f.push)
	return f
}

// push replaces any unread board with the new one without blocking the store.
func (f *boardFeed) push(board domain.Board) {
	for {
		select {
		case f.updates <- board:
			return
		default:
		}
		select {
		case <-f.updates:
		default:
		}
	}
}

// wait blocks until the store publishes a board.
func (f *boardFeed) wait() tea.Msg {
	return boardChangedMsg{board: <-f.updates}
}

// close unsubscribes from the store.
func (f *boardFeed) close() {
	if f.stop != nil {
		f.stop()
	}
}
