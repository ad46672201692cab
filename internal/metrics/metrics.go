package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Sends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_sends_total",
		Help: "Completed sends by reply source (live or offline).",
	}, []string{"source"})

	RejectedSends = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_rejected_sends_total",
		Help: "Sends refused before reaching generation.",
	}, []string{"reason"})

	GenerationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_generation_errors_total",
		Help: "Failed generation requests that fell back to the offline engine.",
	}, []string{"cause"})

	GenerationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "triage_generation_seconds",
		Help:    "Round trip of one generation request.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	})

	Replies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_replies_total",
		Help: "Assistant replies by severity tier.",
	}, []string{"severity"})

	RiskEventsStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "triage_risk_events_stored_total",
		Help: "Risk events consumed by the worker, by outcome.",
	}, []string{"outcome"})
)
