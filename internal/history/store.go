// Package history keeps the recent and saved searches of a profile in a
// key-value store.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/domain"
)

const (
	HistoryKey = "mtg-search-history"
	SavedKey   = "mtg-saved-searches"

	MaxHistory = 10
	MaxSaved   = 5

	// DefaultProfile is used when a caller does not name one.
	DefaultProfile = "default"
)

var (
	// ErrNotFound is returned by a KV when the key is absent.
	ErrNotFound = errors.New("history: key not found")
	// ErrIndexOutOfRange is returned by RemoveSaved for a bad index.
	ErrIndexOutOfRange = errors.New("history: index out of range")
	// ErrBlankQuery is returned by Save for a blank query.
	ErrBlankQuery = errors.New("history: blank query")
	// ErrCorrupt flags a stored list that could not be decoded. The list is
	// read as empty.
	ErrCorrupt = errors.New("history: corrupt stored list")
)

// KV is the storage the lists live in.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Update replaces the value under key with fn's result, atomically with
	// respect to other writers of key. raw is nil when the key is absent.
	// Nothing is written when fn fails, and fn's error is returned.
	Update(ctx context.Context, key string, fn func(raw []byte) ([]byte, error)) error
}

// Store reads and writes the per-profile lists.
type Store struct {
	kv  KV
	now func() time.Time
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

// Key namespaces a list key under a profile.
func Key(profile, key string) string {
	profile = strings.TrimSpace(profile)
	if profile == "" {
		profile = DefaultProfile
	}
	return profile + ":" + key
}

// Record puts a submitted search at the front of the history. Blank queries
// are not recorded; a repeated query replaces its older entry.
func (s *Store) Record(ctx context.Context, profile string, entry domain.SearchEntry) ([]domain.SearchEntry, error) {
	if strings.TrimSpace(entry.Query) == "" {
		list, err := s.History(ctx, profile)
		if errors.Is(err, ErrCorrupt) {
			err = nil
		}
		return list, err
	}
	return s.push(ctx, Key(profile, HistoryKey), entry, MaxHistory)
}

// Save bookmarks a search. Blank queries are rejected.
func (s *Store) Save(ctx context.Context, profile string, entry domain.SearchEntry) ([]domain.SearchEntry, error) {
	if strings.TrimSpace(entry.Query) == "" {
		return nil, ErrBlankQuery
	}
	return s.push(ctx, Key(profile, SavedKey), entry, MaxSaved)
}

// History returns the recent searches, newest first.
func (s *Store) History(ctx context.Context, profile string) ([]domain.SearchEntry, error) {
	return s.load(ctx, Key(profile, HistoryKey))
}

// Saved returns the saved searches, newest first.
func (s *Store) Saved(ctx context.Context, profile string) ([]domain.SearchEntry, error) {
	return s.load(ctx, Key(profile, SavedKey))
}

// RemoveSaved deletes the saved search at index.
func (s *Store) RemoveSaved(ctx context.Context, profile string, index int) ([]domain.SearchEntry, error) {
	return s.update(ctx, Key(profile, SavedKey), func(list []domain.SearchEntry) ([]domain.SearchEntry, error) {
		if index < 0 || index >= len(list) {
			return list, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
		}
		return append(list[:index:index], list[index+1:]...), nil
	})
}

// ClearHistory empties the recent searches.
func (s *Store) ClearHistory(ctx context.Context, profile string) error {
	return s.store(ctx, Key(profile, HistoryKey), []domain.SearchEntry{})
}

func (s *Store) push(ctx context.Context, key string, entry domain.SearchEntry, limit int) ([]domain.SearchEntry, error) {
	if entry.Timestamp == 0 {
		entry.Timestamp = s.now().UnixMilli()
	}
	return s.update(ctx, key, func(list []domain.SearchEntry) ([]domain.SearchEntry, error) {
		next := make([]domain.SearchEntry, 0, min(len(list)+1, limit))
		next = append(next, entry)
		for _, e := range list {
			if len(next) == limit {
				break
			}
			if e.Query == entry.Query {
				continue
			}
			next = append(next, e)
		}
		return next, nil
	})
}

// update runs a read-modify-write of one list through KV.Update so
// concurrent writers of a profile never lose each other's entries. A corrupt
// stored list is replaced. When fn rejects the change, its error and the
// list it returned are passed back.
func (s *Store) update(ctx context.Context, key string, fn func([]domain.SearchEntry) ([]domain.SearchEntry, error)) ([]domain.SearchEntry, error) {
	var (
		out       []domain.SearchEntry
		changeErr error
	)
	err := s.kv.Update(ctx, key, func(raw []byte) ([]byte, error) {
		list, _ := decode(key, raw)
		out, changeErr = fn(list)
		if changeErr != nil {
			return nil, changeErr
		}
		b, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", key, err)
		}
		return b, nil
	})
	switch {
	case err == nil:
		return out, nil
	case changeErr != nil && errors.Is(err, changeErr):
		return out, changeErr
	default:
		return nil, fmt.Errorf("update %s: %w", key, err)
	}
}

// load returns the stored list. A corrupt value reads as an empty list
// together with ErrCorrupt so the caller can log it.
func (s *Store) load(ctx context.Context, key string) ([]domain.SearchEntry, error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return []domain.SearchEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return decode(key, raw)
}

// decode reads a stored list. nil is an empty list; undecodable data is an
// empty list with ErrCorrupt.
func decode(key string, raw []byte) ([]domain.SearchEntry, error) {
	if raw == nil {
		return []domain.SearchEntry{}, nil
	}
	var list []domain.SearchEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		return []domain.SearchEntry{}, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	if list == nil {
		list = []domain.SearchEntry{}
	}
	return list, nil
}

func (s *Store) store(ctx context.Context, key string, list []domain.SearchEntry) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
