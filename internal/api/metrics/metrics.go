// Package metrics defines and registers the Prometheus metrics of the turnos
// client. It is the single source of truth for metric names, labels, and help
// strings. Collectors register with the default registry on import, which the
// web companion exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "turnos_client"

// ── Remote API metrics ────────────────────────────────────────────────────────

// APIRequestsTotal counts calls made to the scheduling API.
// Labels:
//   - operation: logical call name (e.g. "slots.reserve", "auth.login")
//   - outcome: "ok" or the domain.ErrorKind of the failure
var APIRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of scheduling API calls, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// APIRequestDuration measures round-trip latency of API calls.
var APIRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of scheduling API calls, including body decoding.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)

// ── Controller metrics ────────────────────────────────────────────────────────

// StaleResponsesTotal counts slot fetches discarded because a newer fetch
// was issued before they resolved.
// Label:
//   - board: "reservation" or "slots"
var StaleResponsesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_responses_total",
		Help:      "Total number of slot fetch results dropped as stale.",
	},
	[]string{"board"},
)

// SlotActionsTotal counts confirmed slot transitions.
// Labels:
//   - action: "reserve", "cancel", "finalize", "delete_day", "delete_selected"
//   - result: "ok" or "error"
var SlotActionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_actions_total",
		Help:      "Total number of confirmed slot actions, by action and result.",
	},
	[]string{"action", "result"},
)

// SessionEventsTotal counts session store transitions.
// Label:
//   - event: "saved", "cleared", "expired", "corrupt"
var SessionEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Total number of session store events.",
	},
	[]string{"event"},
)
