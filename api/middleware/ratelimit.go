package middleware

import (
	"fmt"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RateLimitMiddleware limits requests per client IP with an in-memory sliding window.
// Health probes and the metrics scrape are never limited.
func (mw *Middleware) RateLimitMiddleware() (func(http.Handler) http.Handler, error) {
	if !mw.cfg.RateLimit.Enabled {
		return func(next http.Handler) http.Handler { return next }, nil
	}

	rate, err := limiter.NewRateFromFormatted(mw.cfg.RateLimit.Rate)
	if err != nil {
		return nil, fmt.Errorf("invalid rate limit %q: %w", mw.cfg.RateLimit.Rate, err)
	}

	instance := limiter.New(memory.NewStore(), rate)
	limited := stdlib.NewMiddleware(instance,
		stdlib.WithLimitReachedHandler(mw.limitReached),
	)

	return func(next http.Handler) http.Handler {
		withLimit := limited.Handler(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isUnlimitedPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			withLimit.ServeHTTP(w, r)
		})
	}, nil
}

func (mw *Middleware) limitReached(w http.ResponseWriter, r *http.Request) {
	mw.logger.Warn("Rate limit exceeded",
		gecho.Field("ip", r.RemoteAddr),
		gecho.Field("endpoint", r.URL.Path),
	)
	gecho.TooManyRequests(w, gecho.WithMessage("error.rateLimitExceeded"), gecho.Send())
}

func isUnlimitedPath(path string) bool {
	switch path {
	case "/", "/metrics", "/health/server":
		return true
	}
	return false
}
