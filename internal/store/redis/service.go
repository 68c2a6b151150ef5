package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/history"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL keeps an idle profile's lists for 90 days
	DefaultTTL = 90 * 24 * time.Hour

	// maxUpdateAttempts bounds optimistic retries when another writer
	// touches a watched key between read and write.
	maxUpdateAttempts = 10
)

// ErrContention is returned when an update kept losing its WATCH race.
var ErrContention = errors.New("too many concurrent updates")

// Store is a history.KV backed by Redis
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis store. A zero ttl keeps keys forever.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the value stored under key
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, Key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, history.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

// Set stores value under key and refreshes its TTL
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, Key(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Update applies fn to the value under key inside a WATCH/MULTI
// transaction, retrying when a concurrent writer changed the key first.
func (s *Store) Update(ctx context.Context, key string, fn func([]byte) ([]byte, error)) error {
	rk := Key(key)
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, rk).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			cur = nil
		case err != nil:
			return err
		}

		next, err := fn(cur)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, rk, next, s.ttl)
			return nil
		})
		return err
	}

	for range maxUpdateAttempts {
		err := s.client.Watch(ctx, txf, rk)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to update %s: %w", key, err)
		}
		return nil
	}
	return fmt.Errorf("failed to update %s: %w", key, ErrContention)
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
