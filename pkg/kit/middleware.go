package kit

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns a Middleware that records every call to the wrapped
// endpoint. Successful calls log at debug, failures at error, both with
// the transport and user carried in the context.
func Logging(logger *slog.Logger, op string) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, request any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, request)
			attrs := []any{
				"op", op,
				"transport", GetTransport(ctx),
				"user_id", GetUserID(ctx),
				"request_id", GetRequestID(ctx),
				"duration", time.Since(start),
			}
			if err != nil {
				logger.Error("endpoint failed", append(attrs, "error", err)...)
			} else {
				logger.Debug("endpoint ok", attrs...)
			}
			return resp, err
		}
	}
}
