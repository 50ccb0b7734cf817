package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qiqgw_events_total",
			Help: "Webhook events by type and reconciliation outcome",
		},
		[]string{"type", "outcome"}, // estimate.*|schedule.*|unknown , applied|skipped|failed
	)

	CalendarCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "qiqgw_calendar_calls_total",
			Help: "Outbound Google Calendar calls by operation and result",
		},
		[]string{"op", "result"}, // insert|update|delete , ok|not_found|error
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		EventsTotal,
		CalendarCallsTotal,
	)
}
