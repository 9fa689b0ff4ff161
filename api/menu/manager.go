package menu

import (
	"tableside_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type MenuRoutesManager struct {
	logger      *gecho.Logger
	menuService *services.MenuService
}

func NewMenuRoutesManager(logger *gecho.Logger, menuService *services.MenuService) *MenuRoutesManager {
	return &MenuRoutesManager{
		logger:      logger,
		menuService: menuService,
	}
}

func (mrm *MenuRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", mrm.FetchCatalog)
		r.Get("/items/{itemId}", mrm.FetchMenuItem)
		r.Post("/refresh", mrm.RefreshCatalog)
	})
}
