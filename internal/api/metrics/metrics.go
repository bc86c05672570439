// Package metrics defines and registers all custom Prometheus metrics for the
// civic issue API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "civic"

// IssuesReportedTotal counts newly reported issues.
// Label:
//   - category: the issue category (e.g. "Road", "Water")
var IssuesReportedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issues_reported_total",
		Help:      "Total number of issues reported, by category.",
	},
	[]string{"category"},
)

// IssueTransitionsTotal counts applied status transitions.
// Labels:
//   - from: the previous status
//   - to: the new status
var IssueTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "issue_transitions_total",
		Help:      "Total number of issue status transitions applied.",
	},
	[]string{"from", "to"},
)

// GuardDenialsTotal counts requests refused by the route guards.
// Label:
//   - reason: "unauthenticated" or "role"
var GuardDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_denials_total",
		Help:      "Total number of requests refused by the route guards, by reason.",
	},
	[]string{"reason"},
)

// UpvotesTotal counts upvote attempts.
// Label:
//   - result: "added" (new vote) or "duplicate" (already in the set)
var UpvotesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upvotes_total",
		Help:      "Total number of upvote attempts, by result.",
	},
	[]string{"result"},
)

// PaymentsVerifiedTotal counts checkout verification outcomes.
// Labels:
//   - type: "boost" or "subscription"
//   - result: "paid", "cancelled" or "failed"
var PaymentsVerifiedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_verified_total",
		Help:      "Total number of checkout verifications, by purchase type and outcome.",
	},
	[]string{"type", "result"},
)
