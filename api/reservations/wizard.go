package reservations

import (
	"net/http"
	"tableside_server/api/middleware"
	"tableside_server/handling"
	"tableside_server/lib"
	"tableside_server/services"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
)

func owner(r *http.Request) string {
	owner, _ := middleware.OwnerFromContext(r.Context())
	return owner
}

func (rrm *ReservationRoutesManager) respond(w http.ResponseWriter, wizard *structs.ReservationWizard, err error, msg string) {
	if err != nil {
		handling.HandleServiceError(err, msg, rrm.logger, w)
		return
	}

	data := map[string]any{
		"wizard": wizard,
	}
	if wizard.Command != nil {
		data["command"] = services.NewCommandView(wizard.Command)
	}
	gecho.Success(w,
		gecho.WithData(data),
		gecho.Send(),
	)
}

// Begin handles POST /reservations
func (rrm *ReservationRoutesManager) Begin(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.BeginReservationRequest](r)
	if err != nil {
		handling.HandleBodyError(err, rrm.logger, w)
		return
	}

	wizard, err := rrm.reservationService.Begin(r.Context(), owner(r), body.RestaurantID)
	rrm.respond(w, wizard, err, "failed to begin reservation")
}

// FetchCurrent handles GET /reservations/current
func (rrm *ReservationRoutesManager) FetchCurrent(w http.ResponseWriter, r *http.Request) {
	wizard, err := rrm.reservationService.Wizard(owner(r))
	rrm.respond(w, wizard, err, "failed to load reservation")
}

// SubmitInfo handles POST /reservations/current/info
func (rrm *ReservationRoutesManager) SubmitInfo(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ReservationInfoRequest](r)
	if err != nil {
		handling.HandleBodyError(err, rrm.logger, w)
		return
	}

	wizard, err := rrm.reservationService.SubmitInfo(owner(r), body.Reservation.Details(), body.ContactEmail)
	rrm.respond(w, wizard, err, "failed to save reservation details")
}

// ProceedToPayment handles POST /reservations/current/payment
func (rrm *ReservationRoutesManager) ProceedToPayment(w http.ResponseWriter, r *http.Request) {
	wizard, err := rrm.reservationService.ProceedToPayment(owner(r))
	rrm.respond(w, wizard, err, "failed to proceed to payment")
}

// CompletePayment handles POST /reservations/current/confirm
func (rrm *ReservationRoutesManager) CompletePayment(w http.ResponseWriter, r *http.Request) {
	wizard, err := rrm.reservationService.CompletePayment(owner(r))
	rrm.respond(w, wizard, err, "failed to complete payment")
}

// Back handles POST /reservations/current/back
func (rrm *ReservationRoutesManager) Back(w http.ResponseWriter, r *http.Request) {
	wizard, err := rrm.reservationService.Back(owner(r))
	rrm.respond(w, wizard, err, "failed to go back")
}
