// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Submission outcomes.
const (
	OutcomeAccepted      = "accepted"
	OutcomeInvalid       = "invalid"
	OutcomeRateLimited   = "rate_limited"
	OutcomeStorageFailed = "storage_failed"
	OutcomeNotifyFailed  = "notify_failed"
)

var (
	ApplicationsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "builder_applications_submitted_total",
			Help: "Submissions to the builder application endpoint by outcome",
		},
		[]string{"outcome"},
	)

	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "builder_application_notifications_failed_total",
			Help: "Staff notifications that could not be delivered",
		},
		[]string{"channel"},
	)

	SubmitDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "builder_application_submit_duration_seconds",
			Help:    "Duration of one submission including storage and notification",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
)
