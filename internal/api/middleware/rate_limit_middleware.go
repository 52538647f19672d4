package middleware

import (
	"net"
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/api/response"
	"github.com/RoyceAzure/lab/cafe_erp/internal/pkg/ratelimit"
	"github.com/rs/zerolog"
)

// RateLimitMiddleware 以 client IP 為 key, 需放在 RealIP 之後
// 限流器本身出錯時放行並記錄
func RateLimitMiddleware(limiter ratelimit.Limiter, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientKey(r)
			allowed, err := limiter.Allow(r.Context(), key)
			if err != nil {
				logger.Warn().Err(err).
					Str("request_id", GetRequestID(r.Context())).
					Str("client", key).
					Msg("rate limiter unavailable, allowing request")
				allowed = true
			}
			if !allowed {
				w.Header().Set("Retry-After", "1")
				response.ErrorJSON(w, http.StatusTooManyRequests, response.CodeTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
