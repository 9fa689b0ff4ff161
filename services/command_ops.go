package services

import (
	"slices"
	"tableside_server/lib"
	"tableside_server/structs"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// commandMutation changes a private copy of a command. Returning an error discards the copy.
type commandMutation func(cmd *structs.Command, now time.Time) error

// applyMutation runs fn against a clone of cmd and returns the clone with its total
// recomputed. The original is never touched, so callers swap the pointer only on success.
func applyMutation(cmd *structs.Command, now time.Time, fn commandMutation) (*structs.Command, error) {
	next := cmd.Clone()
	if err := fn(next, now); err != nil {
		return nil, err
	}
	recomputeTotal(next)
	next.UpdatedAt = now
	return next, nil
}

func recomputeTotal(cmd *structs.Command) {
	total := decimal.Zero
	for _, line := range cmd.Lines {
		total = total.Add(line.Cost())
	}
	cmd.TotalAmount = total
}

func lineIndex(cmd *structs.Command, lineID uuid.UUID) (int, error) {
	idx := slices.IndexFunc(cmd.Lines, func(l structs.OrderLine) bool { return l.ID == lineID })
	if idx < 0 {
		return -1, lib.ErrLineNotFound
	}
	return idx, nil
}

func newCommand(id, owner, section string, restaurant structs.Restaurant, details structs.ReservationDetails, now time.Time) *structs.Command {
	details = details.Normalized()
	return &structs.Command{
		ID:                id,
		OwnerID:           owner,
		SectionID:         section,
		Restaurant:        restaurant,
		Reservation:       details,
		Lines:             []structs.OrderLine{},
		TotalAmount:       decimal.Zero,
		Status:            structs.CommandStatusPending,
		Type:              details.Type,
		WaitstaffRequests: []structs.WaitstaffRequest{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// addItem bumps the unsubmitted line for the item. Lines already sent to the kitchen are
// never bumped; a fresh line is appended instead.
func addItem(item structs.MenuItem) commandMutation {
	return func(cmd *structs.Command, now time.Time) error {
		for i := range cmd.Lines {
			line := &cmd.Lines[i]
			if line.Item.ID == item.ID && !line.Submitted {
				line.Quantity++
				return nil
			}
		}
		cmd.Lines = append(cmd.Lines, structs.OrderLine{
			ID:       uuid.New(),
			Item:     item,
			Quantity: 1,
			AddedAt:  now,
		})
		return nil
	}
}

func removeLine(lineID uuid.UUID) commandMutation {
	return func(cmd *structs.Command, _ time.Time) error {
		idx, err := lineIndex(cmd, lineID)
		if err != nil {
			return err
		}
		cmd.Lines = slices.Delete(cmd.Lines, idx, idx+1)
		return nil
	}
}

func setQuantity(lineID uuid.UUID, quantity int) commandMutation {
	if quantity <= 0 {
		return removeLine(lineID)
	}
	return func(cmd *structs.Command, _ time.Time) error {
		idx, err := lineIndex(cmd, lineID)
		if err != nil {
			return err
		}
		cmd.Lines[idx].Quantity = quantity
		return nil
	}
}

func togglePaid(lineID uuid.UUID) commandMutation {
	return func(cmd *structs.Command, _ time.Time) error {
		idx, err := lineIndex(cmd, lineID)
		if err != nil {
			return err
		}
		cmd.Lines[idx].Paid = !cmd.Lines[idx].Paid
		return nil
	}
}

func toggleSubmitted(lineID uuid.UUID) commandMutation {
	return func(cmd *structs.Command, _ time.Time) error {
		idx, err := lineIndex(cmd, lineID)
		if err != nil {
			return err
		}
		cmd.Lines[idx].Submitted = !cmd.Lines[idx].Submitted
		return nil
	}
}

// submitUnsubmitted flips every unsubmitted line and reports the flipped lines through sent.
func submitUnsubmitted(sent *[]structs.OrderLine) commandMutation {
	return func(cmd *structs.Command, _ time.Time) error {
		for i := range cmd.Lines {
			if cmd.Lines[i].Submitted {
				continue
			}
			cmd.Lines[i].Submitted = true
			if sent != nil {
				*sent = append(*sent, cmd.Lines[i])
			}
		}
		return nil
	}
}

func markAllPaid(cmd *structs.Command, _ time.Time) error {
	for i := range cmd.Lines {
		cmd.Lines[i].Paid = true
	}
	return nil
}

func addWaitstaffRequest(kind structs.WaitstaffRequestType, note string, added *structs.WaitstaffRequest) commandMutation {
	return func(cmd *structs.Command, now time.Time) error {
		req := structs.WaitstaffRequest{
			ID:        uuid.New(),
			Type:      kind,
			Note:      note,
			CreatedAt: now,
		}
		cmd.WaitstaffRequests = append(cmd.WaitstaffRequests, req)
		if added != nil {
			*added = req
		}
		return nil
	}
}

func updateReservation(patch structs.ReservationPatch) commandMutation {
	return func(cmd *structs.Command, _ time.Time) error {
		cmd.Reservation = patch.Apply(cmd.Reservation)
		cmd.Type = cmd.Reservation.Type
		return nil
	}
}

func confirm(cmd *structs.Command, now time.Time) error {
	cmd.Status = structs.CommandStatusConfirmed
	t := now
	cmd.ConfirmedAt = &t
	return nil
}

type groupKey struct {
	itemID    string
	submitted bool
	paid      bool
}

// GroupedAndSortedLines collapses lines sharing (menu item, submitted, paid) into one
// group and orders the groups unsubmitted first, then unpaid first. Groups in the same
// tier keep the order in which their first line appears.
func GroupedAndSortedLines(cmd *structs.Command) []structs.LineGroup {
	if cmd == nil {
		return []structs.LineGroup{}
	}

	index := make(map[groupKey]int)
	groups := make([]structs.LineGroup, 0, len(cmd.Lines))
	for _, line := range cmd.Lines {
		key := groupKey{itemID: line.Item.ID, submitted: line.Submitted, paid: line.Paid}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, structs.LineGroup{
				MenuItemID: line.Item.ID,
				Item:       line.Item,
				Submitted:  line.Submitted,
				Paid:       line.Paid,
				Subtotal:   decimal.Zero,
			})
		}
		g := &groups[i]
		g.GroupQuantity += line.Quantity
		g.LineIDs = append(g.LineIDs, line.ID)
		g.Subtotal = g.Subtotal.Add(line.Cost())
	}

	slices.SortStableFunc(groups, func(a, b structs.LineGroup) int {
		if c := boolRank(a.Submitted) - boolRank(b.Submitted); c != 0 {
			return c
		}
		return boolRank(a.Paid) - boolRank(b.Paid)
	})
	return groups
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

// RemainingBalance is the total minus what has already been paid.
func RemainingBalance(cmd *structs.Command) decimal.Decimal {
	if cmd == nil {
		return decimal.Zero
	}
	paid := decimal.Zero
	for _, line := range cmd.Lines {
		if line.Paid {
			paid = paid.Add(line.Cost())
		}
	}
	return cmd.TotalAmount.Sub(paid)
}

func UnsubmittedLines(cmd *structs.Command) []structs.OrderLine {
	return filterLines(cmd, func(l structs.OrderLine) bool { return !l.Submitted })
}

func PaidLines(cmd *structs.Command) []structs.OrderLine {
	return filterLines(cmd, func(l structs.OrderLine) bool { return l.Paid })
}

func filterLines(cmd *structs.Command, keep func(structs.OrderLine) bool) []structs.OrderLine {
	out := []structs.OrderLine{}
	if cmd == nil {
		return out
	}
	for _, line := range cmd.Lines {
		if keep(line) {
			out = append(out, line)
		}
	}
	return out
}

// NewCommandView bundles a command with its derived display data.
func NewCommandView(cmd *structs.Command) structs.CommandView {
	return structs.CommandView{
		Command:          cmd,
		Groups:           GroupedAndSortedLines(cmd),
		RemainingBalance: RemainingBalance(cmd),
	}
}
