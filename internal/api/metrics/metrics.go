// Package metrics defines and registers all custom Prometheus metrics for the
// expense reimbursement API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time; the
// router exposes them on /metrics alongside the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "expense"

// ── Dispatch metrics ──────────────────────────────────────────────────────────

// ActionsTotal counts dispatched actions by kind and outcome.
// Labels:
//   - action: the action kind (e.g. "submit_request", "approve_request")
//   - result: the response kind (e.g. "success", "forbidden")
var ActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "actions_total",
		Help:      "Total number of dispatched actions, by action kind and result.",
	},
	[]string{"action", "result"},
)

// ResolutionsTotal counts reimbursement resolutions that succeeded.
// Label:
//   - status: "approved" or "denied"
var ResolutionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resolutions_total",
		Help:      "Total number of reimbursement requests resolved, by final status.",
	},
	[]string{"status"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts audit events successfully persisted.
// Label:
//   - action: the action kind the event records
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of audit events persisted, by action kind.",
	},
	[]string{"action"},
)

// AuditQueueDepth tracks the number of audit events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each recorder worker channel.",
	},
	[]string{"worker_id"},
)
