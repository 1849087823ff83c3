// Package metrics provides observability for the event, expense and task
// modules.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks operation counts and request latency.
type Metrics struct {
	EventsCreated        prometheus.Counter
	MembersJoined        prometheus.Counter
	JoinRequestsApproved prometheus.Counter
	ExpensesRecorded     prometheus.Counter
	TasksCreated         prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates a Metrics instance with all collectors registered on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventease_events_created_total",
			Help: "Total number of events created",
		}),
		MembersJoined: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventease_members_joined_total",
			Help: "Total number of participants added to events",
		}),
		JoinRequestsApproved: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventease_join_requests_approved_total",
			Help: "Total number of join requests approved",
		}),
		ExpensesRecorded: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventease_expenses_recorded_total",
			Help: "Total number of expenses recorded",
		}),
		TasksCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventease_tasks_created_total",
			Help: "Total number of tasks created",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eventease_request_duration_seconds",
			Help:    "Duration of HTTP requests by method and route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "route"}),
	}
}

// ObserveRequest records the duration of one HTTP request.
// Call with time.Now() captured at the start of the request.
func (m *Metrics) ObserveRequest(method, route string, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
}
