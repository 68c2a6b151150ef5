package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/domain"
)

type mapKV struct {
	data   map[string][]byte
	getErr error
}

func newMapKV() *mapKV { return &mapKV{data: map[string][]byte{}} }

func (m *mapKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *mapKV) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *mapKV) Update(_ context.Context, key string, fn func([]byte) ([]byte, error)) error {
	if m.getErr != nil {
		return m.getErr
	}
	next, err := fn(m.data[key])
	if err != nil {
		return err
	}
	m.data[key] = next
	return nil
}

func newTestStore(kv KV) *Store {
	s := NewStore(kv)
	clock := time.UnixMilli(1_700_000_000_000)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func entry(q string) domain.SearchEntry {
	return domain.SearchEntry{
		Query:           q,
		Filters:         domain.DefaultBasicFilters(),
		AdvancedFilters: domain.DefaultAdvancedFilters(),
	}
}

func queries(list []domain.SearchEntry) []string {
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = e.Query
	}
	return out
}

func TestRecordDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newMapKV())

	if _, err := s.Record(ctx, "", entry("bolt")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	first, _ := s.History(ctx, "")
	if _, err := s.Record(ctx, "", entry("goblin")); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	list, err := s.Record(ctx, "", entry("bolt"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	if got := fmt.Sprint(queries(list)); got != "[bolt goblin]" {
		t.Fatalf("history = %s, want [bolt goblin]", got)
	}
	if list[0].Timestamp <= first[0].Timestamp {
		t.Errorf("timestamp not refreshed: %d <= %d", list[0].Timestamp, first[0].Timestamp)
	}

	stored, _ := s.History(ctx, DefaultProfile)
	if len(stored) != 2 {
		t.Errorf("stored history = %d entries, want 2", len(stored))
	}
}

func TestRecordIgnoresBlank(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	s := newTestStore(kv)

	_, _ = s.Record(ctx, "p", entry("bolt"))
	list, err := s.Record(ctx, "p", entry("   "))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if len(list) != 1 || list[0].Query != "bolt" {
		t.Errorf("history = %v, want [bolt]", queries(list))
	}
}

func TestRecordCapsAtTen(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newMapKV())

	var list []domain.SearchEntry
	for i := 1; i <= 12; i++ {
		var err error
		list, err = s.Record(ctx, "", entry(fmt.Sprintf("q%d", i)))
		if err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	if len(list) != MaxHistory {
		t.Fatalf("len = %d, want %d", len(list), MaxHistory)
	}
	if list[0].Query != "q12" || list[9].Query != "q3" {
		t.Errorf("history = %v", queries(list))
	}
}

func TestSaveCapsAtFiveAndRejectsBlank(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newMapKV())

	if _, err := s.Save(ctx, "", entry(" ")); !errors.Is(err, ErrBlankQuery) {
		t.Fatalf("Save(blank) error = %v, want ErrBlankQuery", err)
	}
	for i := 1; i <= 7; i++ {
		if _, err := s.Save(ctx, "", entry(fmt.Sprintf("s%d", i))); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	list, err := s.Save(ctx, "", entry("s4"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := fmt.Sprint(queries(list)); got != "[s4 s7 s6 s5 s3]" {
		t.Errorf("saved = %s", got)
	}
}

func TestRemoveSaved(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newMapKV())
	for _, q := range []string{"a", "b", "c"} {
		_, _ = s.Save(ctx, "", entry(q))
	}

	list, err := s.RemoveSaved(ctx, "", 1)
	if err != nil {
		t.Fatalf("RemoveSaved() error = %v", err)
	}
	if got := fmt.Sprint(queries(list)); got != "[c a]" {
		t.Errorf("saved = %s, want [c a]", got)
	}
	stored, _ := s.Saved(ctx, "")
	if got := fmt.Sprint(queries(stored)); got != "[c a]" {
		t.Errorf("stored = %s, want [c a]", got)
	}

	if _, err := s.RemoveSaved(ctx, "", 5); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveSaved(5) error = %v, want ErrIndexOutOfRange", err)
	}
	if _, err := s.RemoveSaved(ctx, "", -1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("RemoveSaved(-1) error = %v, want ErrIndexOutOfRange", err)
	}
	stored, _ = s.Saved(ctx, "")
	if got := fmt.Sprint(queries(stored)); got != "[c a]" {
		t.Errorf("stored after bad index = %s, want [c a]", got)
	}
}

func TestClearHistoryKeepsSaved(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(newMapKV())
	_, _ = s.Record(ctx, "", entry("bolt"))
	_, _ = s.Save(ctx, "", entry("bolt"))

	if err := s.ClearHistory(ctx, ""); err != nil {
		t.Fatalf("ClearHistory() error = %v", err)
	}
	h, _ := s.History(ctx, "")
	saved, _ := s.Saved(ctx, "")
	if len(h) != 0 || len(saved) != 1 {
		t.Errorf("history = %d saved = %d, want 0 and 1", len(h), len(saved))
	}
}

func TestProfilesAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	s := newTestStore(kv)
	_, _ = s.Record(ctx, "alice", entry("bolt"))
	_, _ = s.Record(ctx, "bob", entry("counterspell"))

	if _, ok := kv.data["alice:"+HistoryKey]; !ok {
		t.Errorf("missing namespaced key, have %v", kv.data)
	}
	a, _ := s.History(ctx, "alice")
	if len(a) != 1 || a[0].Query != "bolt" {
		t.Errorf("alice history = %v", queries(a))
	}
}

func TestCorruptListReadsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	kv.data[Key("", HistoryKey)] = []byte("{not json")
	s := newTestStore(kv)

	list, err := s.History(ctx, "")
	if !errors.Is(err, ErrCorrupt) {
		t.Fatalf("History() error = %v, want ErrCorrupt", err)
	}
	if list == nil || len(list) != 0 {
		t.Errorf("History() = %v, want empty list", list)
	}

	list, err = s.Record(ctx, "", entry("bolt"))
	if err != nil {
		t.Fatalf("Record() over corrupt list error = %v", err)
	}
	if len(list) != 1 {
		t.Errorf("history = %v, want [bolt]", queries(list))
	}
}

func TestStorageErrorPropagates(t *testing.T) {
	kv := newMapKV()
	kv.getErr = errors.New("connection refused")
	s := newTestStore(kv)

	if _, err := s.Record(context.Background(), "", entry("bolt")); err == nil {
		t.Fatal("Record() error = nil, want storage error")
	}
}

func TestKey(t *testing.T) {
	if got := Key("  ", SavedKey); got != "default:mtg-saved-searches" {
		t.Errorf("Key() = %q", got)
	}
	if got := Key("p1", HistoryKey); got != "p1:mtg-search-history" {
		t.Errorf("Key() = %q", got)
	}
}
