package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/MrSnakeDoc/prefire/internal/scryfall"
)

var (
	ScryfallRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scryfall_requests_total",
			Help:      "Scryfall HTTP attempts by outcome",
		},
		[]string{"outcome"},
	)

	ScryfallRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scryfall_request_duration_seconds",
			Help:      "Scryfall HTTP attempt duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"outcome"},
	)

	StaleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_responses_total",
			Help:      "Search responses discarded because a newer search superseded them",
		},
	)

	ActiveSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Search sessions currently tracked",
		},
	)
)

func init() {
	prometheus.MustRegister(ScryfallRequestsTotal, ScryfallRequestDuration, StaleResponsesTotal, ActiveSessions)
}

// ScryfallObserver feeds the Scryfall collectors. It satisfies
// scryfall.Observer.
type ScryfallObserver struct{}

func (ScryfallObserver) ObserveRequest(outcome scryfall.Outcome, elapsed time.Duration) {
	ScryfallRequestsTotal.WithLabelValues(string(outcome)).Inc()
	ScryfallRequestDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}
