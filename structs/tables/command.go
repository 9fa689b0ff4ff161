package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArchivedCommand is the durable copy of a confirmed command.
type ArchivedCommand struct {
	// Table Name and identifiers
	tableName struct{} `bun:"table:archived_commands,alias:ac"`
	Id        string   `bun:"id,pk" json:"id"`
	OwnerId   string   `bun:"owner_id,notnull" json:"owner_id"`
	SectionId string   `bun:"section_id" json:"section_id,omitempty"`

	// Restaurant snapshot
	RestaurantId   string `bun:"restaurant_id,notnull" json:"restaurant_id"`
	RestaurantName string `bun:"restaurant_name,notnull" json:"restaurant_name"`

	// Reservation Data
	ReservationDate string `bun:"reservation_date" json:"reservation_date"`
	ReservationTime string `bun:"reservation_time" json:"reservation_time"`
	PartySize       int    `bun:"party_size,notnull" json:"party_size"`
	PreOrder        bool   `bun:"pre_order,notnull" json:"pre_order"`

	// Order Data
	Type          string          `bun:"type,notnull" json:"type"`
	Status        string          `bun:"status,notnull" json:"status"`
	TotalAmount   decimal.Decimal `bun:"total_amount,type:numeric(12,2),notnull" json:"total_amount"`
	PaidAmount    decimal.Decimal `bun:"paid_amount,type:numeric(12,2),notnull" json:"paid_amount"`
	RequestsCount int             `bun:"requests_count,notnull" json:"requests_count"`
	CreatedAt     time.Time       `bun:"created_at,notnull" json:"created_at"`
	ConfirmedAt   time.Time       `bun:"confirmed_at,notnull" json:"confirmed_at"`
	ArchivedAt    time.Time       `bun:"archived_at,notnull,default:current_timestamp" json:"archived_at"`

	Lines []*ArchivedCommandLine `bun:"rel:has-many,join:id=command_id" json:"lines,omitempty"`
}

type ArchivedCommandLine struct {
	tableName struct{}  `bun:"table:archived_command_lines,alias:acl"`
	Id        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	CommandId string    `bun:"command_id,notnull" json:"command_id"`
	Quantity  int       `bun:"quantity,notnull" json:"quantity"`
	Submitted bool      `bun:"submitted,notnull" json:"submitted"`
	Paid      bool      `bun:"paid,notnull" json:"paid"`

	// Snapshot of the menu item at time of order
	MenuItemId   string          `bun:"menu_item_id,notnull" json:"menu_item_id"`
	MenuItemName string          `bun:"menu_item_name,notnull" json:"menu_item_name"`
	UnitPrice    decimal.Decimal `bun:"unit_price,type:numeric(12,2),notnull" json:"unit_price"`
	LineTotal    decimal.Decimal `bun:"line_total,type:numeric(12,2),notnull" json:"line_total"` // quantity * unit_price
}
