package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingsCreated  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "quickride", Name: "bookings_created_total", Help: "Total bookings created"})
	BookingsAccepted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "quickride", Name: "bookings_accepted_total", Help: "Total bookings accepted by a driver"})
	BookingsCompleted = promauto.NewCounter(prometheus.CounterOpts{Namespace: "quickride", Name: "bookings_completed_total", Help: "Total bookings completed"})
	AcceptConflicts  = promauto.NewCounter(prometheus.CounterOpts{Namespace: "quickride", Name: "accept_conflicts_total", Help: "Accept attempts that lost the pending-booking race"})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: "quickride", Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "quickride",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
