package services

import (
	"sync"
	"tableside_server/lib"
	"tableside_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// CommandService is the single-order store: every owner has at most one current command.
// Confirming moves it to the owner's confirmed list, after which a new command has to be
// created for further ordering.
type CommandService struct {
	logger *gecho.Logger
	ids    *IDRegistry
	hooks  Hooks
	runner hookRunner
	now    func() time.Time

	mu        sync.RWMutex
	current   map[string]*structs.Command
	confirmed map[string][]*structs.Command
}

type CommandStoreStats struct {
	ActiveCommands    int `json:"active_commands"`
	ConfirmedCommands int `json:"confirmed_commands"`
}

func NewCommandService(logger *gecho.Logger, ids *IDRegistry, hooks Hooks) *CommandService {
	return &CommandService{
		logger:    logger,
		ids:       ids,
		hooks:     hooks,
		runner:    newHookRunner(logger),
		now:       time.Now,
		current:   make(map[string]*structs.Command),
		confirmed: make(map[string][]*structs.Command),
	}
}

// CreateCommand registers a fresh pending command as the owner's current one and returns its id.
// A pending command the owner still had is dropped.
func (cs *CommandService) CreateCommand(owner string, restaurant structs.Restaurant, details structs.ReservationDetails) (string, error) {
	id, err := cs.ids.Next()
	if err != nil {
		cs.logger.Error("Failed to allocate command id", gecho.Field("error", err))
		return "", err
	}

	cmd := newCommand(id, owner, "", restaurant, details, cs.now())

	cs.mu.Lock()
	if prev, ok := cs.current[owner]; ok {
		cs.logger.Warn("Replacing pending command",
			gecho.Field("owner_id", owner),
			gecho.Field("previous_command_id", prev.ID),
			gecho.Field("command_id", id),
		)
	}
	cs.current[owner] = cmd
	cs.mu.Unlock()

	CommandsCreated.WithLabelValues(variantOwner).Inc()
	cs.logger.Debug("Command created", gecho.Field("owner_id", owner), gecho.Field("command_id", id))
	return id, nil
}

// mutate swaps the owner's current command for the mutated copy in one step.
func (cs *CommandService) mutate(owner string, fn commandMutation) (*structs.Command, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	cmd, ok := cs.current[owner]
	if !ok {
		return nil, lib.ErrCommandNotFound
	}
	next, err := applyMutation(cmd, cs.now(), fn)
	if err != nil {
		return nil, err
	}
	cs.current[owner] = next
	return next.Clone(), nil
}

func (cs *CommandService) AddItem(owner string, item structs.MenuItem) (*structs.Command, error) {
	return cs.mutate(owner, addItem(item))
}

func (cs *CommandService) RemoveItem(owner string, lineID uuid.UUID) (*structs.Command, error) {
	return cs.mutate(owner, removeLine(lineID))
}

// SetQuantity sets the quantity exactly; zero or less removes the line.
func (cs *CommandService) SetQuantity(owner string, lineID uuid.UUID, quantity int) (*structs.Command, error) {
	return cs.mutate(owner, setQuantity(lineID, quantity))
}

func (cs *CommandService) TogglePaid(owner string, lineID uuid.UUID) (*structs.Command, error) {
	return cs.mutate(owner, togglePaid(lineID))
}

func (cs *CommandService) ToggleSubmitted(owner string, lineID uuid.UUID) (*structs.Command, error) {
	return cs.mutate(owner, toggleSubmitted(lineID))
}

// SubmitUnsubmittedItems sends every open line to the kitchen in a single state swap.
func (cs *CommandService) SubmitUnsubmittedItems(owner string) (*structs.Command, error) {
	var sent []structs.OrderLine
	cmd, err := cs.mutate(owner, submitUnsubmitted(&sent))
	if err != nil {
		return nil, err
	}

	LinesSubmitted.Add(float64(len(sent)))
	cs.runner.kitchen(cs.hooks.Kitchen, structs.KitchenTicket{
		CommandID:  cmd.ID,
		OwnerID:    owner,
		Type:       cmd.Type,
		Lines:      sent,
		OccurredAt: cmd.UpdatedAt,
	})
	return cmd, nil
}

func (cs *CommandService) AddWaitstaffRequest(owner string, kind structs.WaitstaffRequestType, note string) (*structs.Command, error) {
	var req structs.WaitstaffRequest
	cmd, err := cs.mutate(owner, addWaitstaffRequest(kind, note, &req))
	if err != nil {
		return nil, err
	}

	WaitstaffRequests.WithLabelValues(string(kind)).Inc()
	cs.runner.staff(cs.hooks.Staff, structs.WaitstaffAlert{CommandID: cmd.ID, Request: req})
	return cmd, nil
}

// MarkAllPaid settles every line. Used by the reservation payment step.
func (cs *CommandService) MarkAllPaid(owner string) (*structs.Command, error) {
	return cs.mutate(owner, markAllPaid)
}

func (cs *CommandService) UpdateReservationDetails(owner string, patch structs.ReservationPatch) (*structs.Command, error) {
	return cs.mutate(owner, updateReservation(patch))
}

// ConfirmCommand moves the current command into the owner's confirmed list.
func (cs *CommandService) ConfirmCommand(owner string) (*structs.Command, error) {
	cs.mu.Lock()
	cmd, ok := cs.current[owner]
	if !ok {
		cs.mu.Unlock()
		return nil, lib.ErrCommandNotFound
	}
	next, err := applyMutation(cmd, cs.now(), confirm)
	if err != nil {
		cs.mu.Unlock()
		return nil, err
	}
	delete(cs.current, owner)
	cs.confirmed[owner] = append(cs.confirmed[owner], next)
	cs.mu.Unlock()

	CommandsConfirmed.WithLabelValues(variantOwner).Inc()
	cs.logger.Info("Command confirmed",
		gecho.Field("owner_id", owner),
		gecho.Field("command_id", next.ID),
		gecho.Field("total", next.TotalAmount.StringFixed(2)),
	)
	cs.runner.archive(cs.hooks.Archive, next.Clone())
	return next.Clone(), nil
}

func (cs *CommandService) Current(owner string) (*structs.Command, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	cmd, ok := cs.current[owner]
	if !ok {
		return nil, lib.ErrCommandNotFound
	}
	return cmd.Clone(), nil
}

// Confirmed lists the owner's confirmed commands, oldest first.
func (cs *CommandService) Confirmed(owner string) []*structs.Command {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	out := make([]*structs.Command, 0, len(cs.confirmed[owner]))
	for _, cmd := range cs.confirmed[owner] {
		out = append(out, cmd.Clone())
	}
	return out
}

func (cs *CommandService) Stats() CommandStoreStats {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	stats := CommandStoreStats{ActiveCommands: len(cs.current)}
	for _, list := range cs.confirmed {
		stats.ConfirmedCommands += len(list)
	}
	return stats
}
