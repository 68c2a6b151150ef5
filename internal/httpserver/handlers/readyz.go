package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/prefire/internal/httpserver/deps"
	"github.com/MrSnakeDoc/prefire/internal/logger"
)

const pingTimeout = 2 * time.Second

type componentStatus struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode,omitempty"`
	Error string `json:"error,omitempty"`
}

type readyzResponse struct {
	Ready      bool                       `json:"ready"`
	Components map[string]componentStatus `json:"components"`
}

// Readyz reports whether the catalog is loaded and the history store
// answers.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"catalog": {OK: d.Catalog != nil && d.Catalog.Len() > 0},
			"history": checkStore(r.Context(), d),
		}

		ready := true
		for _, c := range components {
			ready = ready && c.OK
		}

		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, status, readyzResponse{Ready: ready, Components: components})
	}
}

func checkStore(ctx context.Context, d deps.Deps) componentStatus {
	if d.Store == nil {
		return componentStatus{OK: true, Mode: "memory"}
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.Store.Ping(ctx); err != nil {
		d.Logger.Warn("readyz: redis ping failed", logger.Error(err))
		return componentStatus{OK: false, Mode: "redis", Error: "unreachable"}
	}
	return componentStatus{OK: true, Mode: "redis"}
}
