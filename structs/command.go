package structs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CommandStatus string

const (
	CommandStatusPending   CommandStatus = "pending"
	CommandStatusConfirmed CommandStatus = "confirmed"
	CommandStatusCancelled CommandStatus = "cancelled"
	CommandStatusCompleted CommandStatus = "completed"
)

type CommandType string

const (
	CommandTypeDineIn   CommandType = "dinein"
	CommandTypeTakeaway CommandType = "takeaway"
)

type WaitstaffRequestType string

const (
	WaitstaffRequestCheckout WaitstaffRequestType = "checkout"
	WaitstaffRequestWater    WaitstaffRequestType = "water"
	WaitstaffRequestOther    WaitstaffRequestType = "other"
)

// SectionConfirmPolicy decides what confirming a table section's command does.
type SectionConfirmPolicy string

const (
	// SectionKeepOpen marks the command confirmed and keeps it addressable for more ordering.
	SectionKeepOpen SectionConfirmPolicy = "keep_open"
	// SectionClose moves the command to the section history; the next access starts a new one.
	SectionClose SectionConfirmPolicy = "close"
)

type ReservationDetails struct {
	Date      string      `json:"date"` // 2006-01-02
	Time      string      `json:"time"` // 15:04
	PartySize int         `json:"party_size"`
	Type      CommandType `json:"type"`
	PreOrder  bool        `json:"pre_order"`
}

// Normalized applies the only derived rule: takeaway always pre-orders.
func (d ReservationDetails) Normalized() ReservationDetails {
	if d.Type == "" {
		d.Type = CommandTypeDineIn
	}
	if d.Type == CommandTypeTakeaway {
		d.PreOrder = true
	}
	return d
}

// ReservationPatch carries the fields of a shallow merge; nil means keep.
type ReservationPatch struct {
	Date      *string      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time      *string      `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	PartySize *int         `json:"party_size,omitempty" validate:"omitempty,gte=1,lte=50"`
	Type      *CommandType `json:"type,omitempty" validate:"omitempty,oneof=dinein takeaway"`
	PreOrder  *bool        `json:"pre_order,omitempty"`
}

// Apply returns d with every non-nil field of p copied over.
func (p ReservationPatch) Apply(d ReservationDetails) ReservationDetails {
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Time != nil {
		d.Time = *p.Time
	}
	if p.PartySize != nil {
		d.PartySize = *p.PartySize
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.PreOrder != nil {
		d.PreOrder = *p.PreOrder
	}
	return d.Normalized()
}

// OrderLine is a MenuItem snapshot plus the order-specific state.
type OrderLine struct {
	ID        uuid.UUID `json:"id"`
	Item      MenuItem  `json:"item"`
	Quantity  int       `json:"quantity"`
	Submitted bool      `json:"submitted"`
	Paid      bool      `json:"paid"`
	AddedAt   time.Time `json:"added_at"`
}

func (l OrderLine) Cost() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type WaitstaffRequest struct {
	ID        uuid.UUID            `json:"id"`
	Type      WaitstaffRequestType `json:"type"`
	Note      string               `json:"note,omitempty"`
	CreatedAt time.Time            `json:"created_at"`
}

// Command is a dining party's order aggregate.
type Command struct {
	ID                string             `json:"id"`
	OwnerID           string             `json:"owner_id"`
	SectionID         string             `json:"section_id,omitempty"`
	Restaurant        Restaurant         `json:"restaurant"`
	Reservation       ReservationDetails `json:"reservation"`
	Lines             []OrderLine        `json:"lines"`
	TotalAmount       decimal.Decimal    `json:"total_amount"`
	Status            CommandStatus      `json:"status"`
	Type              CommandType        `json:"type"`
	WaitstaffRequests []WaitstaffRequest `json:"waitstaff_requests"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
	ConfirmedAt       *time.Time         `json:"confirmed_at,omitempty"`
}

// Clone returns a deep copy; readers outside the store only ever see clones.
func (c *Command) Clone() *Command {
	if c == nil {
		return nil
	}
	out := *c
	out.Lines = append([]OrderLine(nil), c.Lines...)
	out.WaitstaffRequests = append([]WaitstaffRequest(nil), c.WaitstaffRequests...)
	if c.ConfirmedAt != nil {
		t := *c.ConfirmedAt
		out.ConfirmedAt = &t
	}
	return &out
}

// LineGroup is one row of the grouped display of a command's lines.
type LineGroup struct {
	MenuItemID    string          `json:"menu_item_id"`
	Item          MenuItem        `json:"item"`
	Submitted     bool            `json:"submitted"`
	Paid          bool            `json:"paid"`
	GroupQuantity int             `json:"group_quantity"`
	LineIDs       []uuid.UUID     `json:"line_ids"`
	Subtotal      decimal.Decimal `json:"subtotal"`
}

// CommandView is what the API returns for a command.
type CommandView struct {
	Command          *Command        `json:"command"`
	Groups           []LineGroup     `json:"groups"`
	RemainingBalance decimal.Decimal `json:"remaining_balance"`
}
