package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/prefire/internal/metrics"
)

// ErrStale is returned for a response that a newer search on the same
// session has superseded. The caller must not display it.
var ErrStale = errors.New("search: stale response")

// Session serializes the searches of one client. Each search gets a
// sequence number; starting one cancels the one in flight, and only the
// newest response is ever applied.
type Session struct {
	id  string
	svc Searcher
	now func() time.Time

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	latest   *Result
	lastUsed time.Time
}

func newSession(id string, svc Searcher, now func() time.Time) *Session {
	return &Session{id: id, svc: svc, now: now, lastUsed: now()}
}

func (s *Session) ID() string { return s.id }

// Search runs req, superseding any search still in flight on the session.
func (s *Session) Search(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	s.seq++
	seq := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.lastUsed = s.now()
	s.mu.Unlock()

	res, err := s.svc.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		metrics.StaleResponsesTotal.Inc()
		return Result{}, ErrStale
	}
	s.cancel = nil
	s.lastUsed = s.now()
	if err != nil {
		return res, err
	}
	s.latest = &res
	return res, nil
}

// Seq returns the sequence number of the newest search started.
func (s *Session) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// Latest returns the last result applied to the session.
func (s *Session) Latest() (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		return Result{}, false
	}
	return *s.latest, true
}

// idleSince reports whether the session has nothing in flight and was last
// used before cutoff.
func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel == nil && s.lastUsed.Before(cutoff)
}

// Sessions tracks sessions by ID.
type Sessions struct {
	svc Searcher
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions(svc Searcher) *Sessions {
	return &Sessions{
		svc:      svc,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session with id, creating it if needed. An empty id gets
// a fresh random one.
func (s *Sessions) Get(id string) *Session {
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		sess = newSession(id, s.svc, s.now)
		s.sessions[id] = sess
		metrics.ActiveSessions.Set(float64(len(s.sessions)))
	}
	return sess
}

// Len returns the number of tracked sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than idle and returns how many were
// dropped.
func (s *Sessions) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, sess := range s.sessions {
		if sess.idleSince(cutoff) {
			delete(s.sessions, id)
			dropped++
		}
	}
	metrics.ActiveSessions.Set(float64(len(s.sessions)))
	return dropped
}
