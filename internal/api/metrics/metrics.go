// Package metrics defines and registers all custom Prometheus metrics for
// the service desk. It is the single source of truth for metric names,
// labels, and help strings; metrics register with the default registry at
// package load.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "servicedesk"

// TicketsCreatedTotal counts tickets accepted into a fulfillment queue.
// Label:
//   - category: "buffet" or "it_support"
var TicketsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_created_total",
		Help:      "Total number of tickets created, by category.",
	},
	[]string{"category"},
)

// TicketsCompletedTotal counts completion clicks. Racing viewers may both
// count the same ticket; the durable store still records a single Done
// transition.
var TicketsCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tickets_completed_total",
		Help:      "Total number of completion commands, by category.",
	},
	[]string{"category"},
)

// PollCyclesTotal counts live queue poll cycles.
var PollCyclesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_poll_cycles_total",
		Help:      "Total number of live queue poll cycles, by category.",
	},
	[]string{"category"},
)

// SuppressionHitsTotal counts tickets hidden by a viewer's local
// suppression set while the durable write propagates.
var SuppressionHitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "queue_suppression_hits_total",
		Help:      "Total number of tickets hidden by local suppression during a poll.",
	},
)

// LiveSessionsGauge tracks the number of open live queue sessions.
var LiveSessionsGauge = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_sessions",
		Help:      "Current number of open live queue sessions.",
	},
)

// CupAlertsTotal counts cups-need-cleaning alerts from requesters.
var CupAlertsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cup_alerts_total",
		Help:      "Total number of cup cleaning alerts reported.",
	},
)

// WritebackErrorsTotal counts failed durable status writes. A failed write
// is self-healing: the ticket reappears once the viewer's suppression entry
// expires.
var WritebackErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "writeback_errors_total",
		Help:      "Total number of failed asynchronous status writes.",
	},
)
