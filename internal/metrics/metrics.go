package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the API
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// BreakdownsReported counts breakdown reports by vehicle class
	BreakdownsReported = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_breakdowns_reported_total", Help: "Breakdowns reported by vehicle class."},
		[]string{"vehicle_class"},
	)
	// SpareAssignments counts spare deployments by vehicle class and outcome
	SpareAssignments = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_spare_assignments_total", Help: "Spare truck assignments by vehicle class and outcome."},
		[]string{"vehicle_class", "outcome"},
	)
	// SpareReleases counts spares returned to the pool
	SpareReleases = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "fleet_spare_releases_total", Help: "Spare trucks released back to the pool."},
	)
	// RouteSaves counts route save attempts by outcome
	RouteSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fleet_route_saves_total", Help: "Route save attempts by outcome."},
		[]string{"outcome"},
	)
)

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(BreakdownsReported)
		Registry.MustRegister(SpareAssignments)
		Registry.MustRegister(SpareReleases)
		Registry.MustRegister(RouteSaves)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
