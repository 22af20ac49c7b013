package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/evanschultz/dndboard/internal/app"
)

// Options selects the redis server backing the board.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Repository stores board snapshots as plain redis string values.
type Repository struct {
	rdb *goredis.Client
}

var _ app.KVStore = (*Repository)(nil)

// Open connects to redis and verifies the server is reachable.
func Open(ctx context.Context, opts Options) (*Repository, error) {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil, errors.New("redis addr is required")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return New(rdb), nil
}

// New wraps an existing client.
func New(rdb *goredis.Client) *Repository {
	return &Repository{rdb: rdb}
}

// Close closes the client.
func (r *Repository) Close() error {
	return r.rdb.Close()
}

// Get returns the value stored under key.
func (r *Repository) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %q: %w", key, err)
	}
	return b, true, nil
}

// Put stores value under key with no expiry.
func (r *Repository) Put(ctx context.Context, key string, value []byte) error {
	if err := r.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("put %q: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key returns app.ErrNotFound.
func (r *Repository) Delete(ctx context.Context, key string) error {
	n, err := r.rdb.Del(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	if n == 0 {
		return app.ErrNotFound
	}
	return nil
}
