package middleware

import (
	"context"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

const CorrelationIDHeader = "X-Correlation-ID"

type correlationIDKey struct{}

// CorrelationID extracts the correlation id from the request header or
// generates one, stores it in the request context together with a
// request-scoped logger, and echoes it in the response.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := r.Header.Get(CorrelationIDHeader)
		if correlationID == "" {
			id, err := uuid.NewV4()
			if err != nil {
				log.Error().Err(err).Msg("Failed to generate correlation id")
			} else {
				correlationID = id.String()
			}
		}

		ctx := WithCorrelationID(r.Context(), correlationID)
		ctx = log.With().Str("correlation_id", correlationID).Logger().WithContext(ctx)

		w.Header().Set(CorrelationIDHeader, correlationID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFromContext returns the id stored by CorrelationID, or "" outside a request.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}
