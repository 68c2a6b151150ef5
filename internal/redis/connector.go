// Package redis opens the Redis connection that backs search history.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/MrSnakeDoc/prefire/internal/logger"
)

// ClientName is reported to Redis (CLIENT LIST) for every pooled connection,
// so history traffic is identifiable on a shared instance.
const ClientName = "prefire-history"

// Options describes the history Redis and how long to wait for it at boot.
type Options struct {
	Addr     string // ex: "localhost:6379"
	Username string
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	Backoff Backoff
}

// Backoff is the boot-time retry policy. The wait starts at Initial and
// doubles up to Max until Total has elapsed.
type Backoff struct {
	Initial   time.Duration
	Max       time.Duration
	Total     time.Duration
	Ping      time.Duration // per attempt
	WarnAfter int           // attempts logged at warn level before escalating
}

func (b Backoff) validate() error {
	var err error
	if b.Total <= 0 {
		err = multierr.Append(err, fmt.Errorf("connect timeout must be > 0, got %v", b.Total))
	}
	if b.Initial <= 0 {
		err = multierr.Append(err, fmt.Errorf("retry interval must be > 0, got %v", b.Initial))
	}
	if b.Max <= 0 {
		err = multierr.Append(err, fmt.Errorf("max wait must be > 0, got %v", b.Max))
	}
	if b.Ping <= 0 {
		err = multierr.Append(err, fmt.Errorf("ping timeout must be > 0, got %v", b.Ping))
	}
	if b.WarnAfter < 0 {
		err = multierr.Append(err, fmt.Errorf("warn threshold must be >= 0, got %d", b.WarnAfter))
	}
	return err
}

// next returns the wait following wait.
func (b Backoff) next(wait time.Duration) time.Duration {
	return min(wait*2, b.Max)
}

// New opens the history client and blocks until it answers PING. It fails
// once Backoff.Total has elapsed or ctx is done.
func New(ctx context.Context, opts Options, log logger.Logger) (*redis.Client, error) {
	if err := opts.Backoff.validate(); err != nil {
		return nil, fmt.Errorf("history redis options: %w", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Username:     opts.Username,
		Password:     opts.Password,
		DB:           opts.DB,
		ClientName:   ClientName,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
		PoolSize:     opts.PoolSize,
	})

	log = log.With(logger.String("addr", opts.Addr), logger.Int("db", opts.DB))
	if err := waitReady(ctx, client, opts.Backoff, log); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// pinger is the part of the client waitReady needs.
type pinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

func waitReady(parent context.Context, c pinger, b Backoff, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(parent, b.Total)
	defer cancel()

	log.Info("waiting for history store", logger.Duration("timeout", b.Total))
	start := time.Now()
	wait := b.Initial

	for attempt := 1; ; attempt++ {
		pingCtx, pingCancel := context.WithTimeout(ctx, b.Ping)
		err := c.Ping(pingCtx).Err()
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("history store ready after retries",
					logger.Int("attempts", attempt),
					logger.Duration("elapsed", time.Since(start)))
			} else {
				log.Info("history store ready")
			}
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			if parent.Err() != nil {
				return fmt.Errorf("history redis: canceled after %d attempts: %w", attempt, parent.Err())
			}
			log.Error("history store unreachable, giving up",
				logger.Int("attempts", attempt),
				logger.Duration("timeout", b.Total),
				logger.Error(err))
			return fmt.Errorf("history redis: unreachable after %d attempts in %v: %w", attempt, b.Total, err)

		case <-timer.C:
			fields := []logger.Field{
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err),
			}
			if attempt <= b.WarnAfter {
				log.Warn("history store not ready, retrying", fields...)
			} else {
				log.Error("history store still not ready", fields...)
			}
			wait = b.next(wait)
		}
	}
}
