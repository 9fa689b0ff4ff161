package lib

import (
	"encoding/json"
	"fmt"
	"strings"
	"tableside_server/structs"

	"github.com/skip2/go-qrcode"
)

// BuildOrderQRPayload serializes the proof-of-order shown to the customer.
func BuildOrderQRPayload(orderID string, cmd *structs.Command) (string, error) {
	itemCount := 0
	for _, line := range cmd.Lines {
		itemCount += line.Quantity
	}

	payload := structs.OrderQRPayload{
		OrderID:         orderID,
		UserID:          cmd.OwnerID,
		RestaurantID:    cmd.Restaurant.ID,
		ReservationTime: strings.TrimSpace(cmd.Reservation.Date + " " + cmd.Reservation.Time),
		TotalAmount:     cmd.TotalAmount,
		Status:          cmd.Status,
		Type:            cmd.Type,
		ItemCount:       itemCount,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal qr payload: %w", err)
	}
	return string(data), nil
}

// EncodeQRPNG renders content as a square PNG of size pixels.
func EncodeQRPNG(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}
