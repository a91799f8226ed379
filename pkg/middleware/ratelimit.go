package middleware

import (
	"net/http"

	"streaming-catalog/pkg/utils"

	"github.com/go-chi/httprate"
)

// RateLimit limits requests per client IP. A non-positive request budget disables it.
func RateLimit(config utils.RateLimitConfig) func(http.Handler) http.Handler {
	if config.Requests <= 0 || config.Window <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		config.Requests,
		config.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			utils.ResponseJSON(w, http.StatusTooManyRequests, false, "Too many requests, try again later", nil, nil)
		}),
	)
}
