package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "research_searches_total",
		Help: "End-to-end searches processed, by outcome.",
	}, []string{"success"})

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "research_search_duration_seconds",
		Help:    "End-to-end search processing time.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})

	agentStepsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "research_agent_steps_total",
		Help: "Tool-calling steps executed, by agent.",
	}, []string{"agent"})

	sourceFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "research_source_fetches_total",
		Help: "Webpage fetches, by outcome and cache hit.",
	}, []string{"success", "cached"})
)

func observeSearch(success bool, d time.Duration) {
	searchesTotal.WithLabelValues(strconv.FormatBool(success)).Inc()
	searchDuration.Observe(d.Seconds())
}

func observeAgent(agent string, steps int) {
	agentStepsTotal.WithLabelValues(agent).Add(float64(steps))
}

func observeFetch(success, cached bool) {
	sourceFetchesTotal.WithLabelValues(strconv.FormatBool(success), strconv.FormatBool(cached)).Inc()
}
