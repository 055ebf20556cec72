// Package metrics defines and registers all custom Prometheus metrics for the
// LearnCraft API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is initialised.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "learncraft"

// ── Checkout metrics ──────────────────────────────────────────────────────────

// CheckoutsTotal counts finished checkouts.
// Label:
//   - outcome: "enrolled", "duplicate", "failed" or "rejected" (validation or lock contention)
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkouts, by outcome.",
	},
	[]string{"outcome"},
)

// CheckoutDuration measures a checkout from dequeue to result.
var CheckoutDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_duration_seconds",
		Help:      "Duration of checkout reconciliation.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// CheckoutQueueDepth tracks the checkouts waiting in each dispatcher worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var CheckoutQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "checkout_queue_depth",
		Help:      "Current number of checkouts pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// ClassesCreatedTotal counts classes submitted for review.
var ClassesCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "classes_created_total",
		Help:      "Total number of classes created.",
	},
)

// ModerationDecisionsTotal counts admin decisions.
// Labels:
//   - subject: "class" or "teacher"
//   - decision: "approve" or "reject"
var ModerationDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "moderation_decisions_total",
		Help:      "Total number of moderation decisions, by subject and decision.",
	},
	[]string{"subject", "decision"},
)

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentIntentsTotal counts payment-intent requests.
// Label:
//   - result: "created", "upstream_error" or "rejected" (invalid price)
var PaymentIntentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payment_intents_total",
		Help:      "Total number of payment intents requested, by result.",
	},
	[]string{"result"},
)
