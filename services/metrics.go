package services

import "github.com/prometheus/client_golang/prometheus"

var (
	CommandsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tableside",
			Subsystem: "commands",
			Name:      "created_total",
			Help:      "Commands created, by store variant",
		},
		[]string{"variant"},
	)

	CommandsConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tableside",
			Subsystem: "commands",
			Name:      "confirmed_total",
			Help:      "Commands confirmed, by store variant",
		},
		[]string{"variant"},
	)

	LinesSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tableside",
			Subsystem: "commands",
			Name:      "lines_submitted_total",
			Help:      "Order lines sent to the kitchen by bulk submit",
		},
	)

	WaitstaffRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tableside",
			Subsystem: "waitstaff",
			Name:      "requests_total",
			Help:      "Waitstaff requests, by type",
		},
		[]string{"type"},
	)

	ExternalSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tableside",
			Subsystem: "dining",
			Name:      "submissions_total",
			Help:      "External order submissions, by result",
		},
		[]string{"result"},
	)

	hookFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tableside",
			Subsystem: "hooks",
			Name:      "failures_total",
			Help:      "Failed side effects, by hook",
		},
		[]string{"hook"},
	)
)

// Collectors lists the domain metrics for registration next to the HTTP ones.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		CommandsCreated,
		CommandsConfirmed,
		LinesSubmitted,
		WaitstaffRequests,
		ExternalSubmissions,
		hookFailures,
	}
}

const (
	variantOwner   = "owner"
	variantSection = "section"
)
