package middleware

import (
	"context"
	"net/http"
	"tableside_server/lib"
	"tableside_server/structs"

	"github.com/MonkyMars/gecho"
)

type contextKey string

const (
	OwnerContextKey  contextKey = "owner"
	ClaimsContextKey contextKey = "claims"
)

// OwnerMiddleware resolves the guest token into the owner id every command route is scoped by.
func (mw *Middleware) OwnerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := lib.ExtractClaims(r, mw.cfg.Auth.GuestTokenSecret)
		if err != nil {
			mw.logger.Warn("Failed to extract claims from request", gecho.Field("error", err))
			gecho.Unauthorized(w, gecho.WithMessage("error.auth.invalidGuestToken"), gecho.Send())
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsContextKey, claims)
		ctx = context.WithValue(ctx, OwnerContextKey, claims.Sub.String())

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext returns the owner id placed by OwnerMiddleware.
func OwnerFromContext(ctx context.Context) (string, bool) {
	owner, ok := ctx.Value(OwnerContextKey).(string)
	return owner, ok && owner != ""
}

func ClaimsFromContext(ctx context.Context) (*structs.GuestClaims, bool) {
	claims, ok := ctx.Value(ClaimsContextKey).(*structs.GuestClaims)
	return claims, ok
}
