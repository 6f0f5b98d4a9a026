// Package metrics defines the custom Prometheus metrics of the auth API.
// HTTP request metrics come from the echoprometheus middleware; the counters
// here describe authentication outcomes.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// Result label values shared by the counters below.
const (
	ResultSuccess            = "success"
	ResultInvalid            = "invalid"
	ResultDuplicate          = "duplicate"
	ResultInvalidCredentials = "invalid_credentials"
	ResultStoreError         = "store_error"
	ResultUnknownUser        = "unknown_user"
	ResultError              = "error"
)

// RegistrationsTotal counts registration attempts.
// Label:
//   - result: "success", "invalid", "duplicate", "store_error" or "error"
var RegistrationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of registration attempts, by result.",
	},
	[]string{"result"},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", "store_error" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer token checks made by the auth middleware.
// Label:
//   - result: "success", a token error kind ("malformed", "signature_invalid",
//     "expired"), "unknown_user" or "store_error"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// LoginDuration measures the login use case end to end, hashing included.
var LoginDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "login_duration_seconds",
		Help:      "Duration of login requests, including password verification.",
		Buckets:   prometheus.DefBuckets,
	},
)
