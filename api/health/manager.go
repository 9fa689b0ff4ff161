package health

import (
	"tableside_server/services"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type HealthRoutesManager struct {
	healthService *services.HealthService
	registry      *prometheus.Registry
}

// NewHealthRoutesManager registers the HTTP and domain collectors on registry. A nil registry
// means the process-wide default one.
func NewHealthRoutesManager(healthService *services.HealthService, registry *prometheus.Registry) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
		registry:      registry,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health/server", hrm.GetServerHealth)
	r.Get("/health/store", hrm.GetStoreHealth)
	r.Get("/health/cache", hrm.GetCacheHealth)
	r.Get("/health/database", hrm.GetDatabaseHealth)

	// Prometheus metrics endpoint
	collectors := append([]prometheus.Collector{HttpDuration, HttpRequests}, services.Collectors()...)
	if hrm.registry == nil {
		r.Get("/metrics", promhttp.Handler().ServeHTTP)
		prometheus.MustRegister(collectors...)
		return
	}
	r.Get("/metrics", promhttp.HandlerFor(hrm.registry, promhttp.HandlerOpts{}).ServeHTTP)
	hrm.registry.MustRegister(collectors...)
}
