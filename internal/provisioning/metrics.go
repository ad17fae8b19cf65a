package provisioning

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Saga operations.
const (
	OperationProvision   = "provision"
	OperationDeprovision = "deprovision"
)

// Compensation reasons.
const (
	ReasonLaunchFailed  = "launch_failed"
	ReasonDeployFailed  = "deploy_failed"
	ReasonPersistFailed = "persist_failed"
)

const (
	resultSuccess = "success"
	resultFailure = "failure"
)

// Metrics records saga outcomes. A nil *Metrics records nothing.
type Metrics struct {
	sagaTotal     *prometheus.CounterVec
	sagaDuration  *prometheus.HistogramVec
	compensations *prometheus.CounterVec
}

// NewMetrics creates the saga metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sagaTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gearpump_broker",
				Name:      "saga_total",
				Help:      "Total number of saga runs by operation and result",
			},
			[]string{"operation", "result"},
		),
		sagaDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "gearpump_broker",
				Name:      "saga_duration_seconds",
				Help:      "Duration of saga runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1s to ~8.5min
			},
			[]string{"operation"},
		),
		compensations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "gearpump_broker",
				Name:      "compensations_total",
				Help:      "Total number of compensating actions by reason",
			},
			[]string{"reason"},
		),
	}
	reg.MustRegister(m.sagaTotal, m.sagaDuration, m.compensations)
	return m
}

// RecordSaga records one finished saga run.
func (m *Metrics) RecordSaga(operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	result := resultSuccess
	if err != nil {
		result = resultFailure
	}
	m.sagaTotal.WithLabelValues(operation, result).Inc()
	m.sagaDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordCompensation records one compensating action.
func (m *Metrics) RecordCompensation(reason string) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues(reason).Inc()
}
