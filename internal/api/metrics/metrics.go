// Package metrics defines and registers all custom Prometheus metrics for
// the storefront API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry via promauto at package
// load; the /metrics endpoint exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Catalog metrics ───────────────────────────────────────────────────────────

// CatalogLoadsTotal counts snapshot load attempts.
// Label:
//   - result: "ok", "error", or "stale" (result discarded because a newer
//     load was already applied)
var CatalogLoadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_loads_total",
		Help:      "Total number of catalog snapshot load attempts, by result.",
	},
	[]string{"result"},
)

// CatalogProducts tracks the size of the current catalog snapshot.
var CatalogProducts = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_products",
		Help:      "Number of products in the current catalog snapshot.",
	},
)

// ── Cart metrics ──────────────────────────────────────────────────────────────

// CartOpsTotal counts cart mutations.
// Label:
//   - action: "item_added", "quantity_changed", or "item_removed"
var CartOpsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cart_ops_total",
		Help:      "Total number of cart mutations, by action.",
	},
	[]string{"action"},
)

// CheckoutsTotal counts checkout attempts.
// Label:
//   - result: "ok" or "replay" (absorbed by the idempotency guard)
var CheckoutsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "checkouts_total",
		Help:      "Total number of checkouts, by result.",
	},
	[]string{"result"},
)

// CheckoutValue observes the total value of completed checkouts.
var CheckoutValue = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "checkout_value",
		Help:      "Distribution of checkout totals in currency units.",
		Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000},
	},
)

// ── Activity pipeline metrics ─────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of entries waiting in each activity
// worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of entries pending in each activity worker channel.",
	},
	[]string{"worker_id"},
)
