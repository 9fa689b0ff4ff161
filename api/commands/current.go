package commands

import (
	"net/http"
	"tableside_server/handling"
	"tableside_server/lib"
	"tableside_server/services"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
)

// CreateCommand handles POST /commands. A pending command of the owner is replaced.
func (crm *CommandRoutesManager) CreateCommand(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CreateCommandRequest](r)
	if err != nil {
		handling.HandleBodyError(err, crm.logger, w)
		return
	}

	restaurant, err := crm.menuService.Restaurant(r.Context(), body.RestaurantID)
	if err != nil {
		handling.HandleServiceError(err, "failed to resolve restaurant", crm.logger, w)
		return
	}

	owner := ownerKey(r)
	if _, err := crm.commandService.CreateCommand(owner, restaurant, body.Reservation.Details()); err != nil {
		handling.HandleServiceError(err, "failed to create command", crm.logger, w)
		return
	}

	cmd, err := crm.commandService.Current(owner)
	if err != nil {
		handling.HandleServiceError(err, "failed to load created command", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.commands.created"),
		gecho.WithData(services.NewCommandView(cmd)),
		gecho.Send(),
	)
}

// FetchCurrent handles GET /commands/current
func (crm *CommandRoutesManager) FetchCurrent(w http.ResponseWriter, r *http.Request) {
	cmd, err := crm.commandService.Current(ownerKey(r))
	if err != nil {
		handling.HandleServiceError(err, "failed to load command", crm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(services.NewCommandView(cmd)),
		gecho.Send(),
	)
}

// FetchConfirmed handles GET /commands/confirmed
func (crm *CommandRoutesManager) FetchConfirmed(w http.ResponseWriter, r *http.Request) {
	confirmed := crm.commandService.Confirmed(ownerKey(r))

	views := make([]structs.CommandView, 0, len(confirmed))
	for _, cmd := range confirmed {
		views = append(views, services.NewCommandView(cmd))
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"commands": views,
			"count":    len(views),
		}),
		gecho.Send(),
	)
}
