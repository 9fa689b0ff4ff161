package reservations

import (
	"tableside_server/api/middleware"
	"tableside_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type ReservationRoutesManager struct {
	logger             *gecho.Logger
	reservationService *services.ReservationService
	mw                 *middleware.Middleware
}

func NewReservationRoutesManager(logger *gecho.Logger, reservationService *services.ReservationService, mw *middleware.Middleware) *ReservationRoutesManager {
	return &ReservationRoutesManager{
		logger:             logger,
		reservationService: reservationService,
		mw:                 mw,
	}
}

// RegisterRoutes mounts the booking wizard. Pre-order items are added through
// /commands/current/items while the wizard is at the menu step.
func (rrm *ReservationRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/reservations", func(r chi.Router) {
		r.Use(rrm.mw.OwnerMiddleware)

		r.Post("/", rrm.Begin)
		r.Route("/current", func(r chi.Router) {
			r.Get("/", rrm.FetchCurrent)
			r.Post("/info", rrm.SubmitInfo)
			r.Post("/payment", rrm.ProceedToPayment)
			r.Post("/confirm", rrm.CompletePayment)
			r.Post("/back", rrm.Back)
		})
	})
}
