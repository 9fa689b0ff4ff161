package commands

import (
	"net/http"
	"tableside_server/handling"
	"tableside_server/lib"
	"tableside_server/services"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// commandStore is the mutation surface shared by the per-owner and the per-section stores.
type commandStore interface {
	AddItem(key string, item structs.MenuItem) (*structs.Command, error)
	RemoveItem(key string, lineID uuid.UUID) (*structs.Command, error)
	SetQuantity(key string, lineID uuid.UUID, quantity int) (*structs.Command, error)
	TogglePaid(key string, lineID uuid.UUID) (*structs.Command, error)
	ToggleSubmitted(key string, lineID uuid.UUID) (*structs.Command, error)
	SubmitUnsubmittedItems(key string) (*structs.Command, error)
	AddWaitstaffRequest(key string, kind structs.WaitstaffRequestType, note string) (*structs.Command, error)
	UpdateReservationDetails(key string, patch structs.ReservationPatch) (*structs.Command, error)
	ConfirmCommand(key string) (*structs.Command, error)
}

// lineHandlers serves the line, request and lifecycle routes of one command context.
// key resolves which command the request addresses.
type lineHandlers struct {
	logger *gecho.Logger
	menu   *services.MenuService
	store  commandStore
	key    func(r *http.Request) string
}

func (h *lineHandlers) register(r chi.Router) {
	r.Post("/items", h.AddItem)
	r.Delete("/items/{lineId}", h.RemoveItem)
	r.Put("/items/{lineId}/quantity", h.SetQuantity)
	r.Post("/items/{lineId}/paid", h.TogglePaid)
	r.Post("/items/{lineId}/submitted", h.ToggleSubmitted)
	r.Post("/submit", h.SubmitUnsubmitted)
	r.Post("/requests", h.AddWaitstaffRequest)
	r.Patch("/reservation", h.UpdateReservation)
	r.Post("/confirm", h.Confirm)
}

func (h *lineHandlers) respond(w http.ResponseWriter, cmd *structs.Command, err error, msg string) {
	if err != nil {
		handling.HandleServiceError(err, msg, h.logger, w)
		return
	}
	gecho.Success(w,
		gecho.WithData(services.NewCommandView(cmd)),
		gecho.Send(),
	)
}

// lineMutation runs fn with the {lineId} of the request.
func (h *lineHandlers) lineMutation(w http.ResponseWriter, r *http.Request, msg string, fn func(key string, lineID uuid.UUID) (*structs.Command, error)) {
	lineID, err := handling.ParseLineID(r)
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.commands.invalidLineId"),
			gecho.Send(),
		)
		return
	}
	cmd, err := fn(h.key(r), lineID)
	h.respond(w, cmd, err, msg)
}

func (h *lineHandlers) AddItem(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.AddItemRequest](r)
	if err != nil {
		handling.HandleBodyError(err, h.logger, w)
		return
	}

	item, err := h.menu.MenuItem(r.Context(), body.MenuItemID)
	if err != nil {
		handling.HandleServiceError(err, "failed to resolve menu item", h.logger, w)
		return
	}

	cmd, err := h.store.AddItem(h.key(r), item)
	h.respond(w, cmd, err, "failed to add item")
}

func (h *lineHandlers) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.lineMutation(w, r, "failed to remove line", h.store.RemoveItem)
}

func (h *lineHandlers) SetQuantity(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.SetQuantityRequest](r)
	if err != nil {
		handling.HandleBodyError(err, h.logger, w)
		return
	}
	h.lineMutation(w, r, "failed to set quantity", func(key string, lineID uuid.UUID) (*structs.Command, error) {
		return h.store.SetQuantity(key, lineID, body.Quantity)
	})
}

func (h *lineHandlers) TogglePaid(w http.ResponseWriter, r *http.Request) {
	h.lineMutation(w, r, "failed to toggle paid", h.store.TogglePaid)
}

func (h *lineHandlers) ToggleSubmitted(w http.ResponseWriter, r *http.Request) {
	h.lineMutation(w, r, "failed to toggle submitted", h.store.ToggleSubmitted)
}

// SubmitUnsubmitted sends every pending line to the kitchen.
func (h *lineHandlers) SubmitUnsubmitted(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.store.SubmitUnsubmittedItems(h.key(r))
	h.respond(w, cmd, err, "failed to submit lines")
}

func (h *lineHandlers) AddWaitstaffRequest(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.WaitstaffRequestBody](r)
	if err != nil {
		handling.HandleBodyError(err, h.logger, w)
		return
	}

	cmd, err := h.store.AddWaitstaffRequest(h.key(r), body.Type, body.Note)
	h.respond(w, cmd, err, "failed to add waitstaff request")
}

func (h *lineHandlers) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	patch, err := lib.ExtractAndValidateBody[structs.ReservationPatch](r)
	if err != nil {
		handling.HandleBodyError(err, h.logger, w)
		return
	}

	cmd, err := h.store.UpdateReservationDetails(h.key(r), *patch)
	h.respond(w, cmd, err, "failed to update reservation")
}

func (h *lineHandlers) Confirm(w http.ResponseWriter, r *http.Request) {
	cmd, err := h.store.ConfirmCommand(h.key(r))
	if err != nil {
		handling.HandleServiceError(err, "failed to confirm command", h.logger, w)
		return
	}

	h.logger.Info("Command confirmed", gecho.Field("command_id", cmd.ID), gecho.Field("section_id", cmd.SectionID))

	gecho.Success(w,
		gecho.WithMessage("success.commands.confirmed"),
		gecho.WithData(services.NewCommandView(cmd)),
		gecho.Send(),
	)
}
