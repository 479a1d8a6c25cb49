package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module.
type Metrics struct {
	// Accepted submissions
	SubmissionsAccepted prometheus.Counter

	// Rejected submissions by error code (bad_request, validation_error,
	// unauthorized, conflict, internal_error)
	SubmissionsRejected *prometheus.CounterVec

	// Full submit pipeline latency
	SubmitDuration prometheus.Histogram

	// List snapshot latency
	ListDuration prometheus.Histogram
}

// New creates a new Metrics instance with all registration metrics registered.
func New() *Metrics {
	return &Metrics{
		SubmissionsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "tapclaim_registration_submissions_accepted_total",
			Help: "Total accepted registration submissions",
		}),
		SubmissionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "tapclaim_registration_submissions_rejected_total",
			Help: "Total rejected registration submissions by error code",
		}, []string{"reason"}),
		SubmitDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tapclaim_registration_submit_duration_seconds",
			Help:    "Duration of the full submit pipeline including storage",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		ListDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "tapclaim_registration_list_duration_seconds",
			Help:    "Duration of registration list snapshots",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementAccepted records an accepted submission.
func (m *Metrics) IncrementAccepted() {
	if m != nil {
		m.SubmissionsAccepted.Inc()
	}
}

// IncrementRejected records a rejected submission with its error code.
func (m *Metrics) IncrementRejected(reason string) {
	if m != nil {
		m.SubmissionsRejected.WithLabelValues(reason).Inc()
	}
}

// ObserveSubmitDuration records the submit pipeline duration.
func (m *Metrics) ObserveSubmitDuration(d time.Duration) {
	if m != nil {
		m.SubmitDuration.Observe(d.Seconds())
	}
}

// ObserveListDuration records the list snapshot duration.
func (m *Metrics) ObserveListDuration(d time.Duration) {
	if m != nil {
		m.ListDuration.Observe(d.Seconds())
	}
}
