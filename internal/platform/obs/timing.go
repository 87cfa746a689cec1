package obs

import (
	"context"
	"place-map-service/internal/platform/logging"
	"time"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// Time logs the duration of an operation at debug level, or at warn level
// when *errp holds an error once the returned func runs. Request scoped
// fields come from the context logger.
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		logger := logging.GetFromContext(ctx)
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			logger.Warn().
				Str("op", name).
				Int64("dur_ms", dur.Milliseconds()).
				Err(*errp).
				Msg("operation failed")
			return
		}
		logger.Debug().
			Str("op", name).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("operation done")
	}
}
