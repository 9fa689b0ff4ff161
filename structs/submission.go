package structs

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiningTable is a physical table as reported by the dining API.
type DiningTable struct {
	Number int  `json:"number"`
	Taken  bool `json:"taken"`
}

type DiningTableOrderRequest struct {
	TableNumber    int `json:"tableNumber"`
	CustomersCount int `json:"customersCount"`
}

type DiningTableOrder struct {
	ID          string `json:"id"`
	TableNumber int    `json:"tableNumber"`
}

type DiningOrderLineRequest struct {
	MenuItemID        string `json:"menuItemId"`
	MenuItemShortName string `json:"menuItemShortName"`
	HowMany           int    `json:"howMany"`
}

// OrderQRPayload is the JSON encoded into the customer's proof-of-order QR code.
type OrderQRPayload struct {
	OrderID         string          `json:"orderId"`
	UserID          string          `json:"userId"`
	RestaurantID    string          `json:"restaurantId"`
	ReservationTime string          `json:"reservationTime"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Status          CommandStatus   `json:"status"`
	Type            CommandType     `json:"type"`
	ItemCount       int             `json:"itemCount"`
}

type SubmissionReceipt struct {
	OrderID     string    `json:"order_id"`
	CommandID   string    `json:"command_id"`
	TableNumber int       `json:"table_number"`
	LinesPosted int       `json:"lines_posted"`
	QRPayload   string    `json:"qr_payload"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// KitchenTicket is published when lines are sent to the kitchen.
type KitchenTicket struct {
	CommandID  string      `json:"command_id"`
	SectionID  string      `json:"section_id,omitempty"`
	OwnerID    string      `json:"owner_id,omitempty"`
	Type       CommandType `json:"type"`
	Lines      []OrderLine `json:"lines"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// WaitstaffAlert is pushed to the floor staff when a table asks for service.
type WaitstaffAlert struct {
	CommandID string           `json:"command_id"`
	SectionID string           `json:"section_id,omitempty"`
	Request   WaitstaffRequest `json:"request"`
}
