package deps

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/catalog"
	"github.com/MrSnakeDoc/prefire/internal/history"
	"github.com/MrSnakeDoc/prefire/internal/logger"
	"github.com/MrSnakeDoc/prefire/internal/search"
)

// Pinger checks a backing store. Nil when history is kept in memory.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger         logger.Logger
	StartTime      time.Time
	Version        string
	Commit         string
	BuildDate      string
	GoVersion      string
	TimeNow        func() time.Time // for testing, defaults to time.Now
	AllowedHosts   []string         // Host headers allowed to access ops endpoints
	AllowedCIDRS   []string         // IPs allowed to access healthz/readyz/metrics endpoints
	TrustProxy     bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)
	Catalog        *catalog.Catalog // Curated edition allow-list
	Search         *search.Service  // Compiler + page adapter
	Sessions       *search.Sessions // Per-client stale-response protection
	History        *history.Store   // Recent and saved searches
	Store          Pinger           // History backend, pinged by readyz (nil = memory)
	DefaultProfile string           // Profile used when the client does not send one
}

// Now returns the current time through TimeNow when set.
func (d Deps) Now() time.Time {
	if d.TimeNow != nil {
		return d.TimeNow()
	}
	return time.Now()
}
