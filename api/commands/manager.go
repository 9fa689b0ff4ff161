package commands

import (
	"net/http"
	"tableside_server/api/middleware"
	"tableside_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type CommandRoutesManager struct {
	logger         *gecho.Logger
	commandService *services.CommandService
	menuService    *services.MenuService
	mw             *middleware.Middleware
	lines          *lineHandlers
}

func NewCommandRoutesManager(
	logger *gecho.Logger,
	commandService *services.CommandService,
	menuService *services.MenuService,
	mw *middleware.Middleware,
) *CommandRoutesManager {
	return &CommandRoutesManager{
		logger:         logger,
		commandService: commandService,
		menuService:    menuService,
		mw:             mw,
		lines: &lineHandlers{
			logger: logger,
			menu:   menuService,
			store:  commandService,
			key:    ownerKey,
		},
	}
}

func ownerKey(r *http.Request) string {
	owner, _ := middleware.OwnerFromContext(r.Context())
	return owner
}

func (crm *CommandRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/commands", func(r chi.Router) {
		r.Use(crm.mw.OwnerMiddleware)

		r.Post("/", crm.CreateCommand)
		r.Get("/confirmed", crm.FetchConfirmed)
		r.Route("/current", func(r chi.Router) {
			r.Get("/", crm.FetchCurrent)
			crm.lines.register(r)
		})
	})
}
