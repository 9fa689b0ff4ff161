package debug

import (
	"tableside_server/config"
	"tableside_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type DebugRoutesManager struct {
	logger       *gecho.Logger
	cacheService *services.CacheService
	menuService  *services.MenuService
}

// NewDebugRoutesManager takes the optional redis cache; nil hides the connection stats.
func NewDebugRoutesManager(logger *gecho.Logger, cacheService *services.CacheService, menuService *services.MenuService) *DebugRoutesManager {
	return &DebugRoutesManager{
		logger:       logger,
		cacheService: cacheService,
		menuService:  menuService,
	}
}

func (drm *DebugRoutesManager) RegisterRoutes(r chi.Router) {
	// Debug routes - only in non-production environments
	if !config.IsProduction() {
		r.Route("/debug", func(r chi.Router) {
			r.Get("/cache", drm.CacheStats)
			r.Post("/cache/clear", drm.ClearCache)
		})
	}
}
