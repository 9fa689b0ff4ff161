package auth

import (
	"net/http"
	"tableside_server/handling"
	"tableside_server/lib"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
)

// HandleGuest issues the token that identifies a new dining party.
func (arm *AuthRoutesManager) HandleGuest(w http.ResponseWriter, r *http.Request) {
	token, claims, err := lib.IssueGuestToken(arm.cfg.Auth.GuestTokenSecret, arm.cfg.Auth.GuestTokenExpiry)
	if err != nil {
		handling.HandleError(err, "failed to issue guest token", arm.logger, w)
		return
	}

	arm.logger.Debug("Guest token issued", gecho.Field("owner_id", claims.Sub))

	gecho.Success(w,
		gecho.WithMessage("success.auth.guestTokenIssued"),
		gecho.WithData(structs.GuestTokenResponse{
			Token:     token,
			OwnerID:   claims.Sub.String(),
			ExpiresAt: claims.Exp,
		}),
		gecho.Send(),
	)
}
