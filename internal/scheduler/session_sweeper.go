package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/logger"
)

const (
	// DefaultIdleTTL is how long a search session may sit unused
	DefaultIdleTTL = 30 * time.Minute
	// DefaultSweepInterval is how often idle sessions are looked for
	DefaultSweepInterval = 5 * time.Minute
)

// Sweeper drops entries idle for longer than the given duration.
type Sweeper interface {
	Sweep(idle time.Duration) int
}

// SessionSweeper periodically drops idle search sessions
type SessionSweeper struct {
	sessions Sweeper
	logger   logger.Logger
	interval time.Duration
	idleTTL  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewSessionSweeper creates a new session sweeper
func NewSessionSweeper(sessions Sweeper, log logger.Logger, interval, idleTTL time.Duration) *SessionSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	return &SessionSweeper{
		sessions: sessions,
		logger:   log,
		interval: interval,
		idleTTL:  idleTTL,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep. It returns immediately.
func (s *SessionSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the sweeper. It is safe to call more than once.
func (s *SessionSweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
}

// Sweep runs one pass and returns the number of sessions dropped
func (s *SessionSweeper) Sweep() int {
	dropped := s.sessions.Sweep(s.idleTTL)
	if dropped > 0 {
		s.logger.Info("dropped idle search sessions",
			logger.Int("dropped", dropped),
			logger.Duration("idle_ttl", s.idleTTL))
	} else {
		s.logger.Debug("no idle search sessions")
	}
	return dropped
}
