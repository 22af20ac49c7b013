package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/evanschultz/dndboard/internal/domain"
)

// DefaultStorageKey names the snapshot when no key is configured.
const DefaultStorageKey = "dndboard-board"

// StoreConfig holds configuration for the board store.
type StoreConfig struct {
	Key          string
	DefaultTitle string
	Logger       *log.Logger
}

// Store is the authoritative in-memory board, persisted through a KVStore after every change.
type Store struct {
	mu        sync.Mutex
	state     *boardState
	nextID    int
	hydrated  bool
	subs      map[int]func(domain.Board)
	nextSubID int

	kv           KVStore
	key          string
	defaultTitle string
	commentID    IDGenerator
	clock        Clock
	logger       *log.Logger
}

var _ BoardStore = (*Store)(nil)

// NewStore constructs a store holding the seed board. kv may be nil for a memory-only store.
func NewStore(kv KVStore, commentID IDGenerator, clock Clock, cfg StoreConfig) *Store {
	if commentID == nil {
		commentID = uuid.NewString
	}
	if clock == nil {
		clock = time.Now
	}
	if cfg.Key == "" {
		cfg.Key = DefaultStorageKey
	}
	if cfg.DefaultTitle == "" {
		cfg.DefaultTitle = domain.DefaultBoardTitle
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	s := &Store{
		subs:         map[int]func(domain.Board){},
		kv:           kv,
		key:          cfg.Key,
		defaultTitle: cfg.DefaultTitle,
		commentID:    commentID,
		clock:        clock,
		logger:       cfg.Logger,
	}
	s.state = newBoardState(s.seed())
	s.nextID = s.state.maxID() + 1
	return s
}

// Key returns the snapshot key this store persists under.
func (s *Store) Key() string {
	return s.key
}

// Snapshot returns a detached copy of the current board.
func (s *Store) Snapshot() domain.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.board()
}

// Subscribe registers fn to receive every new board state and returns a function that removes it.
func (s *Store) Subscribe(fn func(domain.Board)) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Dispatch applies one action atomically. Changed states are persisted and then published to subscribers.
func (s *Store) Dispatch(ctx context.Context, action Action) error {
	_, err := s.dispatch(ctx, action)
	return err
}

// dispatch applies action and returns the id it created, if any.
func (s *Store) dispatch(ctx context.Context, action Action) (int, error) {
	if action == nil {
		return 0, ErrNilAction
	}
	s.mu.Lock()
	m := &mutation{
		state:     s.state.fork(),
		nextID:    s.allocateID,
		commentID: s.commentID,
		now:       s.clock(),
		logger:    s.logger.With("action", action.Name()),
	}
	if err := action.apply(m); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if !m.changed {
		s.mu.Unlock()
		return m.createdID, nil
	}
	s.state = m.state
	s.nextID = max(s.nextID, s.state.maxID()+1)
	board := s.state.board()
	s.persist(ctx, NewPersistedState(board).WithNextID(s.nextID))
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Debug("board action applied", "action", action.Name(), "columns", len(board.Columns), "cards", board.CardCount())
	notify(subs, board)
	return m.createdID, nil
}

// allocateID returns the next fresh column or card id. Callers hold s.mu.
func (s *Store) allocateID() int {
	id := s.nextID
	s.nextID++
	return id
}

// persist writes the full board snapshot. Failures are logged; the in-memory state stays authoritative.
func (s *Store) persist(ctx context.Context, state PersistedState) {
	if s.kv == nil {
		return
	}
	raw, err := encodeState(state)
	if err != nil {
		s.logger.Error("encode board snapshot failed", "key", s.key, "err", err)
		return
	}
	if err := s.kv.Put(ctx, s.key, raw); err != nil {
		s.logger.Error("persist board snapshot failed", "key", s.key, "err", err)
	}
}

// subscribersLocked copies the subscriber set. Callers hold s.mu.
func (s *Store) subscribersLocked() []func(domain.Board) {
	out := make([]func(domain.Board), 0, len(s.subs))
	for id := 0; id < s.nextSubID; id++ {
		if fn, ok := s.subs[id]; ok {
			out = append(out, fn)
		}
	}
	return out
}

// notify publishes one board to each subscriber.
func notify(subs []func(domain.Board), board domain.Board) {
	for _, fn := range subs {
		fn(board.Clone())
	}
}

// Hydrated reports whether the persisted snapshot (or seed board) has been applied.
func (s *Store) Hydrated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hydrated
}

// SetHydrated marks the store hydrated and notifies subscribers on the first transition.
// Passing false after the store is hydrated has no effect.
func (s *Store) SetHydrated(hydrated bool) {
	s.mu.Lock()
	if !hydrated || s.hydrated {
		s.mu.Unlock()
		return
	}
	s.hydrated = true
	board := s.state.board()
	subs := s.subscribersLocked()
	s.mu.Unlock()
	notify(subs, board)
}

// Rehydrate loads the persisted snapshot, or the seed board when none is usable, and marks the store hydrated.
func (s *Store) Rehydrate(ctx context.Context) {
	board, next := s.load(ctx)

	s.mu.Lock()
	s.state = newBoardState(board)
	s.nextID = max(next, s.state.maxID()+1)
	s.hydrated = true
	subs := s.subscribersLocked()
	s.mu.Unlock()

	s.logger.Info("board rehydrated", "key", s.key, "columns", len(board.Columns), "cards", board.CardCount())
	notify(subs, board)
}

// load reads and decodes the stored snapshot and its id counter, falling back to the seed board.
func (s *Store) load(ctx context.Context) (domain.Board, int) {
	if s.kv == nil {
		return s.seed(), 0
	}
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.logger.Warn("read board snapshot failed; using seed board", "key", s.key, "err", err)
		return s.seed(), 0
	}
	if !ok {
		s.logger.Debug("no stored board snapshot; using seed board", "key", s.key)
		return s.seed(), 0
	}
	snap, err := DecodeSnapshot(raw)
	if err != nil {
		s.logger.Warn("board snapshot unreadable; using seed board", "key", s.key, "err", err)
		return s.seed(), 0
	}
	if snap.Version > CurrentSnapshotVersion {
		s.logger.Warn("board snapshot is newer than this build; loading as-is", "key", s.key, "version", snap.Version, "supported", CurrentSnapshotVersion)
	}
	return snap.Board(), snap.State.NextID
}

// seed returns the demo board under the configured default title.
func (s *Store) seed() domain.Board {
	board := SeedBoard()
	board.Title = s.defaultTitle
	return board
}

// Reset replaces the board with the seed board.
func (s *Store) Reset(ctx context.Context) error {
	return s.Dispatch(ctx, ReplaceBoard{Board: s.seed()})
}

// UpdateBoardTitle replaces the board title.
func (s *Store) UpdateBoardTitle(ctx context.Context, title string) error {
	return s.Dispatch(ctx, UpdateBoardTitle{Title: title})
}

// AddCard appends a card to a column and returns its id.
func (s *Store) AddCard(ctx context.Context, columnID int, title string) (int, error) {
	return s.dispatch(ctx, AddCard{ColumnID: columnID, Title: title})
}

// AddColumn appends an empty column and returns its id.
func (s *Store) AddColumn(ctx context.Context, title string) (int, error) {
	return s.dispatch(ctx, AddColumn{Title: title})
}

// DeleteColumn removes a column and its cards.
func (s *Store) DeleteColumn(ctx context.Context, columnID int) error {
	return s.Dispatch(ctx, DeleteColumn{ColumnID: columnID})
}

// UpdateColumnTitle replaces a column title.
func (s *Store) UpdateColumnTitle(ctx context.Context, columnID int, title string) error {
	return s.Dispatch(ctx, UpdateColumnTitle{ColumnID: columnID, Title: title})
}

// UpdateCardTitle replaces a card title.
func (s *Store) UpdateCardTitle(ctx context.Context, cardID int, title string) error {
	return s.Dispatch(ctx, UpdateCardTitle{CardID: cardID, Title: title})
}

// UpdateCardDescription replaces a card description.
func (s *Store) UpdateCardDescription(ctx context.Context, cardID int, description string) error {
	return s.Dispatch(ctx, UpdateCardDescription{CardID: cardID, Description: description})
}

// AddComment appends a comment to a card.
func (s *Store) AddComment(ctx context.Context, cardID int, text, author string) error {
	return s.Dispatch(ctx, AddComment{CardID: cardID, Text: text, Author: author})
}

// MoveCard moves a card between columns. A card missing from fromColumnID leaves the board unchanged.
func (s *Store) MoveCard(ctx context.Context, cardID, fromColumnID, toColumnID, index int) error {
	return s.Dispatch(ctx, MoveCard{CardID: cardID, FromColumnID: fromColumnID, ToColumnID: toColumnID, Index: index})
}

// ReorderCardsInColumn re-sequences a column's cards.
func (s *Store) ReorderCardsInColumn(ctx context.Context, columnID int, cardIDs []int) error {
	return s.Dispatch(ctx, ReorderCardsInColumn{ColumnID: columnID, CardIDs: cardIDs})
}

// ReorderColumns re-sequences the board's columns.
func (s *Store) ReorderColumns(ctx context.Context, columnIDs []int) error {
	return s.Dispatch(ctx, ReorderColumns{ColumnIDs: columnIDs})
}

// ReplaceBoard swaps in a validated board.
func (s *Store) ReplaceBoard(ctx context.Context, board domain.Board) error {
	if err := s.Dispatch(ctx, ReplaceBoard{Board: board}); err != nil {
		return fmt.Errorf("replace board: %w", err)
	}
	return nil
}
