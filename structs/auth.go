package structs

import (
	"time"

	"github.com/google/uuid"
)

// GuestClaims identify the dining party behind a request.
type GuestClaims struct {
	Sub  uuid.UUID `json:"sub"`
	Role string    `json:"role"`
	Iat  time.Time `json:"iat"`
	Exp  time.Time `json:"exp"`
	Jti  uuid.UUID `json:"jti"`
}

type GuestTokenResponse struct {
	Token     string    `json:"token"`
	OwnerID   string    `json:"owner_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
