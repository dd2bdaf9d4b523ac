package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Snapshot kinds used as label values.
const (
	KindSensors = "sensors"
	KindStatus  = "status"
	KindUnknown = "unknown"
)

// Submission outcomes used as label values.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeInvalid  = "invalid"
)

// Metrics holds the dashboard counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	pushEvents        *prometheus.CounterVec
	pushDropped       *prometheus.CounterVec
	pushConnErrors    prometheus.Counter
	bootstrapFailures *prometheus.CounterVec
	submissions       *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		pushEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growbox_push_events_total",
			Help: "Push events applied to the view, by snapshot kind.",
		}, []string{"kind"}),
		pushDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growbox_push_events_dropped_total",
			Help: "Push events discarded because their payload was malformed.",
		}, []string{"kind"}),
		pushConnErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "growbox_push_connection_errors_total",
			Help: "Errors reported by the push transport.",
		}),
		bootstrapFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growbox_bootstrap_failures_total",
			Help: "Failed initial snapshot fetches, by snapshot kind.",
		}, []string{"kind"}),
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "growbox_target_submissions_total",
			Help: "Target submissions, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.pushEvents, m.pushDropped, m.pushConnErrors, m.bootstrapFailures, m.submissions)
	return m
}

func (m *Metrics) PushEvent(kind string) {
	if m == nil {
		return
	}
	m.pushEvents.WithLabelValues(kind).Inc()
}

func (m *Metrics) PushDropped(kind string) {
	if m == nil {
		return
	}
	m.pushDropped.WithLabelValues(kind).Inc()
}

func (m *Metrics) PushConnectionError() {
	if m == nil {
		return
	}
	m.pushConnErrors.Inc()
}

func (m *Metrics) BootstrapFailure(kind string) {
	if m == nil {
		return
	}
	m.bootstrapFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) Submission(outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
}
