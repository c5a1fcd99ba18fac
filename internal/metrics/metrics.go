package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pairwork_match_score",
		Help:    "Distribution of overall match scores.",
		Buckets: prometheus.LinearBuckets(0, 10, 11),
	})

	matchesComputed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairwork_matches_computed_total",
		Help: "Match computations by subject kind.",
	}, []string{"kind"})

	matchCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairwork_match_cache_hits_total",
		Help: "Match score requests served from cache.",
	})

	transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairwork_application_transitions_total",
		Help: "Applied application state transitions.",
	}, []string{"from", "to"})

	invalidTransitions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairwork_application_invalid_transitions_total",
		Help: "Rejected application state transitions.",
	})

	couplesResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairwork_couple_applications_resolved_total",
		Help: "Couple applications resolved by outcome.",
	}, []string{"outcome"})

	sweepExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairwork_couple_sweep_expired_total",
		Help: "Couple applications expired by the confirmation sweep.",
	})
)

func RecordMatch(kind string, score float64) {
	matchScore.Observe(score)
	matchesComputed.WithLabelValues(kind).Inc()
}

func RecordMatchCacheHit() {
	matchCacheHits.Inc()
}

func RecordTransition(from, to string) {
	transitions.WithLabelValues(from, to).Inc()
}

func RecordInvalidTransition() {
	invalidTransitions.Inc()
}

func RecordCoupleResolved(outcome string) {
	couplesResolved.WithLabelValues(outcome).Inc()
}

func RecordSweepExpired(n int) {
	if n > 0 {
		sweepExpired.Add(float64(n))
	}
}
