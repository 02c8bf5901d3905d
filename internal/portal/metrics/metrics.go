package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the portal module. All methods are
// nil-safe so tests can run without a registry.
type Metrics struct {
	Queries             *prometheus.CounterVec
	Verifications       *prometheus.CounterVec
	SubmissionsRecorded prometheus.Counter
	SubmissionsRejected *prometheus.CounterVec
	QueryDuration       *prometheus.HistogramVec
}

// New creates a new Metrics instance with all portal module metrics registered.
func New() *Metrics {
	return &Metrics{
		Queries: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_queries_total",
			Help: "Total portal queries by operation and outcome",
		}, []string{"operation", "outcome"}),
		Verifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_email_verifications_total",
			Help: "Email verification results",
		}, []string{"result"}),
		SubmissionsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "portal_submissions_recorded_total",
			Help: "Total submissions appended to the output log",
		}),
		SubmissionsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_submissions_rejected_total",
			Help: "Submissions rejected before reaching the output log",
		}, []string{"reason"}),
		QueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_query_duration_seconds",
			Help:    "Duration of portal operations including external reads",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"operation"}),
	}
}

// ObserveQuery records one completed operation.
func (m *Metrics) ObserveQuery(operation string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.Queries.WithLabelValues(operation, outcome).Inc()
	m.QueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ObserveVerification records an email verification result.
func (m *Metrics) ObserveVerification(registered bool) {
	if m == nil {
		return
	}
	result := "not_registered"
	if registered {
		result = "registered"
	}
	m.Verifications.WithLabelValues(result).Inc()
}

// IncrementSubmissionRecorded records a successful append.
func (m *Metrics) IncrementSubmissionRecorded() {
	if m == nil {
		return
	}
	m.SubmissionsRecorded.Inc()
}

// IncrementSubmissionRejected records a rejection by reason.
func (m *Metrics) IncrementSubmissionRejected(reason string) {
	if m == nil {
		return
	}
	m.SubmissionsRejected.WithLabelValues(reason).Inc()
}
