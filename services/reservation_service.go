package services

import (
	"context"
	"fmt"
	"sync"
	"tableside_server/lib"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
)

// RestaurantLookup resolves the restaurant snapshot a new command is created with.
type RestaurantLookup interface {
	Restaurant(ctx context.Context, id string) (structs.Restaurant, error)
}

// ReservationService drives the info, menu, payment, confirm booking flow on top of the
// owner's current command. The command stays pending until payment completes.
type ReservationService struct {
	logger      *gecho.Logger
	commands    *CommandService
	restaurants RestaurantLookup
	mailer      Mailer
	runner      hookRunner

	mu      sync.Mutex
	wizards map[string]*structs.ReservationWizard
}

func NewReservationService(logger *gecho.Logger, commands *CommandService, restaurants RestaurantLookup, mailer Mailer) *ReservationService {
	return &ReservationService{
		logger:      logger,
		commands:    commands,
		restaurants: restaurants,
		mailer:      mailer,
		runner:      newHookRunner(logger),
		wizards:     make(map[string]*structs.ReservationWizard),
	}
}

// Begin starts a booking, or returns the one still in progress for the owner. The restaurant
// is resolved outside the lock since it may hit the remote menu.
func (rs *ReservationService) Begin(ctx context.Context, owner, restaurantID string) (*structs.ReservationWizard, error) {
	if w := rs.running(owner); w != nil {
		return w, nil
	}

	restaurant, err := rs.restaurants.Restaurant(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	rs.mu.Lock()
	defer rs.mu.Unlock()

	// another request for the same owner may have started one meanwhile
	if w := rs.runningLocked(owner); w != nil {
		return w, nil
	}
	if w, ok := rs.wizards[owner]; ok && w.Step != structs.WizardStepConfirm {
		rs.logger.Warn("Reservation command disappeared, starting over",
			gecho.Field("owner_id", owner),
			gecho.Field("command_id", w.CommandID),
		)
	}
	id, err := rs.commands.CreateCommand(owner, restaurant, structs.ReservationDetails{})
	if err != nil {
		return nil, err
	}

	w := &structs.ReservationWizard{
		OwnerID:      owner,
		CommandID:    id,
		RestaurantID: restaurant.ID,
		Step:         structs.WizardStepInfo,
	}
	rs.wizards[owner] = w
	rs.logger.Debug("Reservation started", gecho.Field("owner_id", owner), gecho.Field("command_id", id))
	return rs.view(w), nil
}

func (rs *ReservationService) running(owner string) *structs.ReservationWizard {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.runningLocked(owner)
}

// runningLocked returns the owner's unfinished wizard whose command still exists.
func (rs *ReservationService) runningLocked(owner string) *structs.ReservationWizard {
	w, ok := rs.wizards[owner]
	if !ok || w.Step == structs.WizardStepConfirm {
		return nil
	}
	if _, err := rs.command(w); err != nil {
		return nil
	}
	return rs.view(w)
}

// SubmitInfo records the reservation details and moves on to the menu.
func (rs *ReservationService) SubmitInfo(owner string, details structs.ReservationDetails, contactEmail string) (*structs.ReservationWizard, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	w, err := rs.at(owner, structs.WizardStepInfo)
	if err != nil {
		return nil, err
	}
	if _, err := rs.command(w); err != nil {
		return nil, err
	}

	details = details.Normalized()
	patch := structs.ReservationPatch{
		Date:      &details.Date,
		Time:      &details.Time,
		PartySize: &details.PartySize,
		Type:      &details.Type,
		PreOrder:  &details.PreOrder,
	}
	if _, err := rs.commands.UpdateReservationDetails(owner, patch); err != nil {
		return nil, err
	}

	w.Draft = &details
	w.ContactEmail = contactEmail
	w.Step = structs.WizardStepMenu
	return rs.view(w), nil
}

// ProceedToPayment leaves the menu step. A pre-order needs at least one line.
func (rs *ReservationService) ProceedToPayment(owner string) (*structs.ReservationWizard, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	w, err := rs.at(owner, structs.WizardStepMenu)
	if err != nil {
		return nil, err
	}
	cmd, err := rs.command(w)
	if err != nil {
		return nil, err
	}
	if cmd.Reservation.PreOrder && len(cmd.Lines) == 0 {
		return nil, lib.ErrEmptyPreOrder
	}

	w.Step = structs.WizardStepPayment
	return rs.view(w), nil
}

// CompletePayment settles every line, sends open lines to the kitchen and confirms the command.
// No payment provider is involved.
func (rs *ReservationService) CompletePayment(owner string) (*structs.ReservationWizard, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	w, err := rs.at(owner, structs.WizardStepPayment)
	if err != nil {
		return nil, err
	}
	if _, err := rs.command(w); err != nil {
		return nil, err
	}

	if _, err := rs.commands.MarkAllPaid(owner); err != nil {
		return nil, err
	}
	if _, err := rs.commands.SubmitUnsubmittedItems(owner); err != nil {
		return nil, err
	}
	confirmed, err := rs.commands.ConfirmCommand(owner)
	if err != nil {
		return nil, err
	}

	w.Step = structs.WizardStepConfirm
	w.Command = confirmed
	rs.logger.Info("Reservation confirmed",
		gecho.Field("owner_id", owner),
		gecho.Field("command_id", confirmed.ID),
		gecho.Field("date", confirmed.Reservation.Date),
		gecho.Field("time", confirmed.Reservation.Time),
	)
	rs.runner.mail(rs.mailer, w.ContactEmail, confirmed.Clone())
	return rs.view(w), nil
}

// Back moves one step back. Returning to info drops the wizard-local draft; the command is kept.
func (rs *ReservationService) Back(owner string) (*structs.ReservationWizard, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	w, ok := rs.wizards[owner]
	if !ok {
		return nil, lib.ErrWizardNotFound
	}

	switch w.Step {
	case structs.WizardStepMenu:
		w.Draft = nil
		w.ContactEmail = ""
		w.Step = structs.WizardStepInfo
	case structs.WizardStepPayment:
		w.Step = structs.WizardStepMenu
	default:
		return nil, fmt.Errorf("%w: cannot go back from %s", lib.ErrWizardStep, w.Step)
	}
	return rs.view(w), nil
}

func (rs *ReservationService) Wizard(owner string) (*structs.ReservationWizard, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	w, ok := rs.wizards[owner]
	if !ok {
		return nil, lib.ErrWizardNotFound
	}
	return rs.view(w), nil
}

func (rs *ReservationService) at(owner string, step structs.WizardStep) (*structs.ReservationWizard, error) {
	w, ok := rs.wizards[owner]
	if !ok {
		return nil, lib.ErrWizardNotFound
	}
	if w.Step != step {
		return nil, fmt.Errorf("%w: at %s, need %s", lib.ErrWizardStep, w.Step, step)
	}
	return w, nil
}

// command returns the owner's current command if it is still the one this wizard created.
func (rs *ReservationService) command(w *structs.ReservationWizard) (*structs.Command, error) {
	cmd, err := rs.commands.Current(w.OwnerID)
	if err != nil {
		return nil, err
	}
	if cmd.ID != w.CommandID {
		return nil, lib.ErrCommandNotFound
	}
	return cmd, nil
}

func (rs *ReservationService) view(w *structs.ReservationWizard) *structs.ReservationWizard {
	out := *w
	if w.Draft != nil {
		d := *w.Draft
		out.Draft = &d
	}
	if w.Step == structs.WizardStepConfirm {
		out.Command = w.Command.Clone()
	} else if cmd, err := rs.command(w); err == nil {
		out.Command = cmd
	}
	return &out
}
