package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	httpErrorsTotal    *prometheus.CounterVec

	assessmentsCreatedTotal    prometheus.Counter
	assessmentsFinalizedTotal  prometheus.Counter
	assessmentRollbackFailures prometheus.Counter
	phaseTransitionsTotal      *prometheus.CounterVec
	invitesIssuedTotal         prometheus.Counter
	inviteVerifyTotal          *prometheus.CounterVec
	notificationsCreatedTotal  *prometheus.CounterVec
	sseClientsActive           prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "praxis_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		assessmentsCreatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_assessments_created_total",
			Help: "Total number of assessments created.",
		})

		assessmentsFinalizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_assessments_finalized_total",
			Help: "Total number of assessments finalized, each closing a project.",
		})

		assessmentRollbackFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_assessment_rollback_failures_total",
			Help: "Compensating deletes that failed and left an orphaned assessment row.",
		})

		phaseTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_phase_transitions_total",
			Help: "Project phase transitions that committed.",
		}, []string{"from", "to"})

		invitesIssuedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "praxis_invites_issued_total",
			Help: "Team-join invite tokens issued.",
		})

		inviteVerifyTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_invite_verify_total",
			Help: "Invite verification outcomes.",
		}, []string{"outcome"})

		notificationsCreatedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "praxis_notifications_created_total",
			Help: "Notifications persisted, labeled by type.",
		}, []string{"type"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "praxis_sse_clients_active",
			Help: "Currently connected SSE notification streams.",
		})

		prometheus.MustRegister(
			httpRequestsTotal, httpLatencySeconds, httpErrorsTotal,
			assessmentsCreatedTotal, assessmentsFinalizedTotal, assessmentRollbackFailures,
			phaseTransitionsTotal, invitesIssuedTotal, inviteVerifyTotal,
			notificationsCreatedTotal, sseClientsActive,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// AssessmentsCreatedTotal exposes the assessment creation counter.
func AssessmentsCreatedTotal() prometheus.Counter {
	RegisterMetrics()
	return assessmentsCreatedTotal
}

// AssessmentsFinalizedTotal exposes the finalization counter.
func AssessmentsFinalizedTotal() prometheus.Counter {
	RegisterMetrics()
	return assessmentsFinalizedTotal
}

// AssessmentRollbackFailuresTotal exposes the failed-compensation counter.
func AssessmentRollbackFailuresTotal() prometheus.Counter {
	RegisterMetrics()
	return assessmentRollbackFailures
}

// PhaseTransitionsTotal exposes the phase transition counter.
func PhaseTransitionsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return phaseTransitionsTotal
}

// InvitesIssuedTotal exposes the invite issuance counter.
func InvitesIssuedTotal() prometheus.Counter {
	RegisterMetrics()
	return invitesIssuedTotal
}

// InviteVerifyTotal exposes the invite verification outcome counter.
func InviteVerifyTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return inviteVerifyTotal
}

// NotificationsCreatedTotal exposes the notification counter.
func NotificationsCreatedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsCreatedTotal
}

// SSEClientsActive exposes the active stream gauge.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}
