// Package metrics defines and registers the custom Prometheus metrics of the
// store API. HTTP request metrics come from the echoprometheus middleware;
// this package covers authentication and catalogue activity.
//
// Metrics are registered with the default registry at package init through
// promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "store"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts calls to POST /token.
// Label:
//   - result: "success", "failure" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// LoginRateLimitedTotal counts login attempts rejected by the rate limiter.
var LoginRateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_rate_limited_total",
		Help:      "Total number of login attempts rejected by the rate limiter.",
	},
)

// TokenValidationsTotal counts bearer token checks made by the auth middleware.
// Label:
//   - result: "valid", "missing", "invalid" or "rejected" (valid token, unusable account)
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of bearer token validations, by result.",
	},
	[]string{"result"},
)

// ── Domain metrics ────────────────────────────────────────────────────────────

var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of user accounts registered.",
	},
)

var ProductsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "products_created_total",
		Help:      "Total number of products created.",
	},
)

var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed.",
	},
)
