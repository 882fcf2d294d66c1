// Package telemetry registers the prometheus metrics exposed on
// /metrics: request counts, scrape latency, match quality and chat
// routing outcomes.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopsync_searches_total",
		Help: "Search requests by outcome (live, fallback, mock, error).",
	}, []string{"outcome"})

	scrapeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shopsync_scrape_duration_seconds",
		Help:    "Wall time of one retailer search scrape.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 8),
	}, []string{"retailer"})

	matchedPairs = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shopsync_matched_pairs",
		Help:    "Cross-retailer pairs claimed per search.",
		Buckets: prometheus.LinearBuckets(0, 2, 10),
	})

	semanticCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopsync_semantic_calls_total",
		Help: "Semantic scoring calls by result (ok, degraded).",
	}, []string{"result"})

	chatActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shopsync_chat_actions_total",
		Help: "Chat routing decisions by action.",
	}, []string{"action"})

	compareRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shopsync_compare_requests_total",
		Help: "Compare-details requests served.",
	})
)

func RecordSearch(outcome string) { searchesTotal.WithLabelValues(outcome).Inc() }

func ObserveScrape(retailer string, d time.Duration) {
	scrapeDuration.WithLabelValues(retailer).Observe(d.Seconds())
}

func ObserveMatchedPairs(n int) { matchedPairs.Observe(float64(n)) }

func RecordSemanticCall(result string) { semanticCalls.WithLabelValues(result).Inc() }

func RecordChatAction(action string) { chatActions.WithLabelValues(action).Inc() }

func RecordCompare() { compareRequests.Inc() }
