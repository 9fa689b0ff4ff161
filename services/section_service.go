package services

import (
	"slices"
	"strings"
	"sync"
	"tableside_server/lib"
	"tableside_server/structs"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SectionService is the per-table store. Each section owns exactly one command at a time
// and is guarded by its own mutex, so sections never block or touch each other.
type SectionService struct {
	logger     *gecho.Logger
	ids        *IDRegistry
	hooks      Hooks
	runner     hookRunner
	now        func() time.Time
	restaurant structs.Restaurant
	policy     structs.SectionConfirmPolicy
	strict     bool

	mu       sync.RWMutex
	sections map[string]*sectionSlot
}

type sectionSlot struct {
	mu      sync.Mutex
	command *structs.Command
	history []*structs.Command
}

type SectionSummary struct {
	SectionID        string                `json:"section_id"`
	CommandID        string                `json:"command_id,omitempty"`
	Status           structs.CommandStatus `json:"status,omitempty"`
	LineCount        int                   `json:"line_count"`
	TotalAmount      decimal.Decimal       `json:"total_amount"`
	RemainingBalance decimal.Decimal       `json:"remaining_balance"`
	Requests         int                   `json:"waitstaff_requests"`
	ClosedCommands   int                   `json:"closed_commands"`
}

type SectionStoreStats struct {
	Sections       int    `json:"sections"`
	OpenCommands   int    `json:"open_commands"`
	ClosedCommands int    `json:"closed_commands"`
	ConfirmPolicy  string `json:"confirm_policy"`
}

func NewSectionService(logger *gecho.Logger, ids *IDRegistry, hooks Hooks, restaurant structs.Restaurant, cfg *structs.SectionsConfig) *SectionService {
	policy := structs.SectionKeepOpen
	var known []string
	var strict bool
	if cfg != nil {
		if cfg.ConfirmPolicy == structs.SectionClose {
			policy = structs.SectionClose
		}
		known = cfg.Known
		strict = cfg.Strict
	}

	ss := &SectionService{
		logger:     logger,
		ids:        ids,
		hooks:      hooks,
		runner:     newHookRunner(logger),
		now:        time.Now,
		restaurant: restaurant,
		policy:     policy,
		strict:     strict,
		sections:   make(map[string]*sectionSlot),
	}
	for _, id := range known {
		if id = strings.TrimSpace(id); id != "" {
			ss.sections[id] = &sectionSlot{}
		}
	}
	if strict && len(ss.sections) == 0 {
		logger.Warn("Strict sections enabled without any known section; every section id will be rejected")
	}
	return ss
}

func (ss *SectionService) Policy() structs.SectionConfirmPolicy {
	return ss.policy
}

// slot returns the section's slot, creating it on first access. In strict mode the slot set
// is fixed at startup and unknown ids are rejected.
func (ss *SectionService) slot(section string) (*sectionSlot, error) {
	if strings.TrimSpace(section) == "" {
		return nil, lib.ErrSectionRequired
	}

	ss.mu.RLock()
	s, ok := ss.sections[section]
	ss.mu.RUnlock()
	if ok {
		return s, nil
	}
	if ss.strict {
		return nil, lib.ErrUnknownSection
	}

	ss.mu.Lock()
	defer ss.mu.Unlock()
	if s, ok = ss.sections[section]; !ok {
		s = &sectionSlot{}
		ss.sections[section] = s
	}
	return s, nil
}

// provision returns the slot's command, or a new pending one that is not yet stored.
// Caller holds s.mu.
func (ss *SectionService) provision(section string, s *sectionSlot) (*structs.Command, bool, error) {
	if s.command != nil {
		return s.command, false, nil
	}
	id, err := ss.ids.Next()
	if err != nil {
		ss.logger.Error("Failed to allocate command id", gecho.Field("section_id", section), gecho.Field("error", err))
		return nil, false, err
	}
	return newCommand(id, "", section, ss.restaurant, structs.ReservationDetails{}, ss.now()), true, nil
}

func (ss *SectionService) store(section string, s *sectionSlot, cmd *structs.Command, fresh bool) {
	s.command = cmd
	if fresh {
		CommandsCreated.WithLabelValues(variantSection).Inc()
		ss.logger.Debug("Section command provisioned", gecho.Field("section_id", section), gecho.Field("command_id", cmd.ID))
	}
}

func (ss *SectionService) mutate(section string, fn commandMutation) (*structs.Command, error) {
	s, err := ss.slot(section)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, fresh, err := ss.provision(section, s)
	if err != nil {
		return nil, err
	}
	next, err := applyMutation(cmd, ss.now(), fn)
	if err != nil {
		return nil, err
	}
	ss.store(section, s, next, fresh)
	return next.Clone(), nil
}

// Section returns the section's command, provisioning one on first access.
func (ss *SectionService) Section(section string) (*structs.Command, error) {
	s, err := ss.slot(section)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, fresh, err := ss.provision(section, s)
	if err != nil {
		return nil, err
	}
	if fresh {
		ss.store(section, s, cmd, true)
	}
	return cmd.Clone(), nil
}

// SectionHistory lists the commands closed in this section, oldest first.
func (ss *SectionService) SectionHistory(section string) ([]*structs.Command, error) {
	s, err := ss.slot(section)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*structs.Command, 0, len(s.history))
	for _, cmd := range s.history {
		out = append(out, cmd.Clone())
	}
	return out, nil
}

func (ss *SectionService) ListSections() []SectionSummary {
	ss.mu.RLock()
	ids := make([]string, 0, len(ss.sections))
	slots := make(map[string]*sectionSlot, len(ss.sections))
	for id, s := range ss.sections {
		ids = append(ids, id)
		slots[id] = s
	}
	ss.mu.RUnlock()

	slices.Sort(ids)
	out := make([]SectionSummary, 0, len(ids))
	for _, id := range ids {
		s := slots[id]
		s.mu.Lock()
		summary := SectionSummary{
			SectionID:        id,
			TotalAmount:      decimal.Zero,
			RemainingBalance: decimal.Zero,
			ClosedCommands:   len(s.history),
		}
		if cmd := s.command; cmd != nil {
			summary.CommandID = cmd.ID
			summary.Status = cmd.Status
			summary.LineCount = len(cmd.Lines)
			summary.TotalAmount = cmd.TotalAmount
			summary.RemainingBalance = RemainingBalance(cmd)
			summary.Requests = len(cmd.WaitstaffRequests)
		}
		s.mu.Unlock()
		out = append(out, summary)
	}
	return out
}

func (ss *SectionService) AddItem(section string, item structs.MenuItem) (*structs.Command, error) {
	return ss.mutate(section, addItem(item))
}

func (ss *SectionService) RemoveItem(section string, lineID uuid.UUID) (*structs.Command, error) {
	return ss.mutate(section, removeLine(lineID))
}

func (ss *SectionService) SetQuantity(section string, lineID uuid.UUID, quantity int) (*structs.Command, error) {
	return ss.mutate(section, setQuantity(lineID, quantity))
}

func (ss *SectionService) TogglePaid(section string, lineID uuid.UUID) (*structs.Command, error) {
	return ss.mutate(section, togglePaid(lineID))
}

func (ss *SectionService) ToggleSubmitted(section string, lineID uuid.UUID) (*structs.Command, error) {
	return ss.mutate(section, toggleSubmitted(lineID))
}

func (ss *SectionService) SubmitUnsubmittedItems(section string) (*structs.Command, error) {
	var sent []structs.OrderLine
	cmd, err := ss.mutate(section, submitUnsubmitted(&sent))
	if err != nil {
		return nil, err
	}

	LinesSubmitted.Add(float64(len(sent)))
	ss.runner.kitchen(ss.hooks.Kitchen, structs.KitchenTicket{
		CommandID:  cmd.ID,
		SectionID:  section,
		Type:       cmd.Type,
		Lines:      sent,
		OccurredAt: cmd.UpdatedAt,
	})
	return cmd, nil
}

func (ss *SectionService) AddWaitstaffRequest(section string, kind structs.WaitstaffRequestType, note string) (*structs.Command, error) {
	var req structs.WaitstaffRequest
	cmd, err := ss.mutate(section, addWaitstaffRequest(kind, note, &req))
	if err != nil {
		return nil, err
	}

	WaitstaffRequests.WithLabelValues(string(kind)).Inc()
	ss.runner.staff(ss.hooks.Staff, structs.WaitstaffAlert{CommandID: cmd.ID, SectionID: section, Request: req})
	return cmd, nil
}

func (ss *SectionService) UpdateReservationDetails(section string, patch structs.ReservationPatch) (*structs.Command, error) {
	return ss.mutate(section, updateReservation(patch))
}

// ConfirmCommand confirms the section's command. Under keep_open the confirmed command
// stays in place and keeps taking orders; under close it moves to the section history
// and the next access provisions a new command.
func (ss *SectionService) ConfirmCommand(section string) (*structs.Command, error) {
	s, err := ss.slot(section)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	cmd, fresh, err := ss.provision(section, s)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	next, err := applyMutation(cmd, ss.now(), confirm)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if fresh {
		CommandsCreated.WithLabelValues(variantSection).Inc()
	}
	if ss.policy == structs.SectionClose {
		s.history = append(s.history, next)
		s.command = nil
	} else {
		s.command = next
	}
	s.mu.Unlock()

	CommandsConfirmed.WithLabelValues(variantSection).Inc()
	ss.logger.Info("Section command confirmed",
		gecho.Field("section_id", section),
		gecho.Field("command_id", next.ID),
		gecho.Field("policy", string(ss.policy)),
		gecho.Field("total", next.TotalAmount.StringFixed(2)),
	)
	ss.runner.archive(ss.hooks.Archive, next.Clone())
	return next.Clone(), nil
}

func (ss *SectionService) Stats() SectionStoreStats {
	ss.mu.RLock()
	slots := make([]*sectionSlot, 0, len(ss.sections))
	for _, s := range ss.sections {
		slots = append(slots, s)
	}
	ss.mu.RUnlock()

	stats := SectionStoreStats{Sections: len(slots), ConfirmPolicy: string(ss.policy)}
	for _, s := range slots {
		s.mu.Lock()
		if s.command != nil {
			stats.OpenCommands++
		}
		stats.ClosedCommands += len(s.history)
		s.mu.Unlock()
	}
	return stats
}
