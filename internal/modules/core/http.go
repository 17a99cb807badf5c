package core

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	CorrelationIDHeader                = "Correlation-Id"
	CorrelationIDContextKey contextKey = "correlation_id"
)

// CorrelationIDHTTPMiddleware propagates the Correlation-Id header, generating
// one when absent, and attaches a logger tagged with it to the request context.
func CorrelationIDHTTPMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			correlationID := r.Header.Get(CorrelationIDHeader)
			if correlationID == "" {
				correlationID = uuid.NewString()
			}

			w.Header().Set(CorrelationIDHeader, correlationID)

			ctx = context.WithValue(ctx, CorrelationIDContextKey, correlationID)
			ctx = WithLogger(ctx, logger.With(zap.String("correlation_id", correlationID)))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
