// Package metrics defines and registers all custom Prometheus metrics for
// the user directory. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry at import time via
// promauto; the HTTP layer exposes them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userdir"

// ── Producer metrics ──────────────────────────────────────────────────────────

// CommandsPublishedTotal counts commands acknowledged by the broker.
// Label:
//   - kind: "user.create", "user.update", "user.delete"
var CommandsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_published_total",
		Help:      "Total number of commands successfully published to the broker.",
	},
	[]string{"kind"},
)

// PublishErrorsTotal counts publish attempts rejected by the broker.
var PublishErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "publish_errors_total",
		Help:      "Total number of command publish failures.",
	},
	[]string{"kind"},
)

// ── Consumer metrics ──────────────────────────────────────────────────────────

// CommandsAppliedTotal counts commands applied to the store.
var CommandsAppliedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_applied_total",
		Help:      "Total number of commands successfully applied.",
	},
	[]string{"kind"},
)

// CommandsDedupTotal counts idempotency decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new command, applied)
var CommandsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_dedup_total",
		Help:      "Total number of idempotency checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// DeadLetterTotal counts deliveries moved to the dead-letter queue.
// Label:
//   - reason: short description ("unmarshal_error", "invalid_envelope", "user_not_found", "email_taken")
var DeadLetterTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dead_letter_total",
		Help:      "Total number of deliveries dead-lettered, by reason.",
	},
	[]string{"reason"},
)

// ApplyDuration measures how long a single command takes from delivery to
// store acknowledgment.
var ApplyDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "command_apply_duration_seconds",
		Help:      "Duration of command application from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)
