package app

import (
	"context"
	"time"

	"github.com/evanschultz/dndboard/internal/domain"
)

// KVStore persists opaque snapshot blobs under string keys.
type KVStore interface {
	Get(context.Context, string) ([]byte, bool, error)
	Put(context.Context, string, []byte) error
}

// BoardStore is the capability set collaborators use to read and change board state.
type BoardStore interface {
	Snapshot() domain.Board
	Dispatch(context.Context, Action) error
	Subscribe(func(domain.Board)) func()
}

// IDGenerator returns unique identifiers for new comments.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time
