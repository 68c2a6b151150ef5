package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/multierr"

	"github.com/MrSnakeDoc/prefire/internal/catalog"
	"github.com/MrSnakeDoc/prefire/internal/config"
	"github.com/MrSnakeDoc/prefire/internal/history"
	"github.com/MrSnakeDoc/prefire/internal/httpserver"
	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/logger"
	"github.com/MrSnakeDoc/prefire/internal/metrics"
	"github.com/MrSnakeDoc/prefire/internal/redis"
	"github.com/MrSnakeDoc/prefire/internal/scheduler"
	"github.com/MrSnakeDoc/prefire/internal/scryfall"
	"github.com/MrSnakeDoc/prefire/internal/search"
	"github.com/MrSnakeDoc/prefire/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/prefire/internal/store/redis"
	"github.com/MrSnakeDoc/prefire/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	sweeper     *scheduler.SessionSweeper
}

// New loads the configuration and wires every component. With Redis
// configured it waits for the server to answer before returning.
func New(ctx context.Context) (*App, error) {
	cfg := config.Load()
	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	cat := catalog.Default()
	loggerClient.Info("edition catalog loaded", logger.Int("editions", cat.Len()))

	client := scryfall.NewClient(
		scryfall.WithBaseURL(cfg.ScryfallBaseURL),
		scryfall.WithUserAgent(cfg.ScryfallUserAgent),
		scryfall.WithHTTPClient(&http.Client{Timeout: cfg.ScryfallTimeout}),
		scryfall.WithRateLimit(cfg.ScryfallRateInterval),
		scryfall.WithRetries(cfg.ScryfallRetries),
		scryfall.WithObserver(metrics.ScryfallObserver{}),
	)

	var (
		kv          history.KV
		pinger      deps.Pinger
		redisClient *goredis.Client
	)
	if cfg.RedisEnabled() {
		rc, err := redis.New(ctx, redis.Options{
			Addr:         cfg.RedisAddr,
			Username:     cfg.RedisUser,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  cfg.RedisDT,
			ReadTimeout:  cfg.RedisRT,
			WriteTimeout: cfg.RedisWT,
			PoolSize:     cfg.RedisPoolSize,
			Backoff: redis.Backoff{
				Initial:   cfg.RedisRetryInterval,
				Max:       cfg.RedisMaxWait,
				Total:     cfg.RedisConnectTimeout,
				Ping:      cfg.RedisPingTimeout,
				WarnAfter: cfg.RedisWarnThreshold,
			},
		}, loggerClient)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		store := redisstore.NewStore(rc, cfg.HistoryTTL)
		kv, pinger, redisClient = store, store, rc
	} else {
		loggerClient.Warn("PREFIRE_REDIS_ADDR not set, search history is kept in memory")
		kv = memory.NewStore()
	}

	hist := history.NewStore(kv)
	svc := search.NewService(client, cat.Codes(), hist, cfg.DefaultPageSize, loggerClient)
	sessions := search.NewSessions(svc)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		Catalog:        cat,
		Search:         svc,
		Sessions:       sessions,
		History:        hist,
		Store:          pinger,
		DefaultProfile: cfg.DefaultProfile,
	}

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      httpserver.New(cfg, loggerClient, d),
		redisClient: redisClient,
		sweeper:     scheduler.NewSessionSweeper(sessions, loggerClient, cfg.SessionSweepInterval, cfg.SessionIdleTTL),
	}, nil
}

// Run serves until SIGINT/SIGTERM or a server error, then shuts down.
func (a *App) Run() (err error) {
	a.logger.Info("starting " + version.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.sweeper.Start(ctx)
	a.logger.Info("session sweeper started",
		logger.Duration("interval", a.cfg.SessionSweepInterval),
		logger.Duration("idle_ttl", a.cfg.SessionIdleTTL))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutting down gracefully")
	case err = <-errCh:
	}

	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if stopErr := a.server.Stop(shutdownCtx); stopErr != nil {
		err = multierr.Append(err, fmt.Errorf("stop server: %w", stopErr))
	}

	if a.redisClient != nil {
		if closeErr := a.redisClient.Close(); closeErr != nil {
			err = multierr.Append(err, fmt.Errorf("close redis: %w", closeErr))
		} else {
			a.logger.Info("redis closed cleanly")
		}
	}

	_ = a.logger.Sync()
	if err == nil {
		a.logger.Info("prefire stopped cleanly")
	}
	return err
}
