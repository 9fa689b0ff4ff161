package api

import (
	"tableside_server/api/auth"
	"tableside_server/api/commands"
	"tableside_server/api/debug"
	"tableside_server/api/health"
	"tableside_server/api/menu"
	"tableside_server/api/middleware"
	"tableside_server/api/orders"
	"tableside_server/api/reservations"
	"tableside_server/services"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

type routerManager struct {
	healthRoutes      *health.HealthRoutesManager
	authRoutes        *auth.AuthRoutesManager
	menuRoutes        *menu.MenuRoutesManager
	commandRoutes     *commands.CommandRoutesManager
	sectionRoutes     *commands.SectionRoutesManager
	reservationRoutes *reservations.ReservationRoutesManager
	orderRoutes       *orders.OrderRoutesManager
	debugRoutes       *debug.DebugRoutesManager
}

func NewRouterManager(
	logger *gecho.Logger,
	cfg *structs.Config,
	sm *services.ServiceManager,
	mw *middleware.Middleware,
	registry *prometheus.Registry,
) *routerManager {
	return &routerManager{
		healthRoutes:      health.NewHealthRoutesManager(sm.HealthService, registry),
		authRoutes:        auth.NewAuthRoutesManager(logger, cfg),
		menuRoutes:        menu.NewMenuRoutesManager(logger, sm.MenuService),
		commandRoutes:     commands.NewCommandRoutesManager(logger, sm.CommandService, sm.MenuService, mw),
		sectionRoutes:     commands.NewSectionRoutesManager(logger, sm.SectionService, sm.MenuService),
		reservationRoutes: reservations.NewReservationRoutesManager(logger, sm.ReservationService, mw),
		orderRoutes:       orders.NewOrderRoutesManager(logger, sm.SubmissionService, sm.ArchiveService, mw),
		debugRoutes:       debug.NewDebugRoutesManager(logger, sm.CacheService, sm.MenuService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.healthRoutes.RegisterRoutes(r)
	rm.authRoutes.RegisterRoutes(r)
	rm.menuRoutes.RegisterRoutes(r)
	rm.commandRoutes.RegisterRoutes(r)
	rm.sectionRoutes.RegisterRoutes(r)
	rm.reservationRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
	rm.debugRoutes.RegisterRoutes(r)
}
