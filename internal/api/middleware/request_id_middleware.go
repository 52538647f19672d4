package middleware

import (
	"context"
	"net/http"

	"github.com/RoyceAzure/lab/cafe_erp/internal/constants"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

func RequestIdMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 上游有帶就沿用
		requestId := r.Header.Get(HeaderRequestID)
		if requestId == "" {
			requestId = uuid.New().String()
		}
		w.Header().Set(HeaderRequestID, requestId)

		ctx := context.WithValue(r.Context(), constants.RequestIDKey, requestId)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return v
	}
	return "unknown"
}
