package lei

import (
	"time"

	domain "bondregistry/internal/domain/entity/lei"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeSuccess = "success"

var (
	lookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bondregistry_lei_lookups_total",
		Help: "LEI lookups by outcome (success or resolution failure kind)",
	}, []string{"outcome"})

	lookupDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bondregistry_lei_lookup_duration_seconds",
		Help:    "Round-trip duration of LEI lookups",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)

func observeLookup(err error, d time.Duration) {
	lookupsTotal.WithLabelValues(kindLabel(err)).Inc()
	lookupDuration.Observe(d.Seconds())
}

func kindLabel(err error) string {
	if err == nil {
		return outcomeSuccess
	}
	if kind, ok := domain.KindOf(err); ok {
		return kind.String()
	}
	return "unknown"
}
