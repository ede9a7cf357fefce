package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const (
	// RequestIDKey carries the per-message correlation id.
	RequestIDKey contextKey = "request_id"
	// IdentityKey carries the numeric chat identity handling the message.
	IdentityKey contextKey = "identity"
)

// WithRequestID returns a context carrying a correlation id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// WithIdentity returns a context carrying the chat identity.
func WithIdentity(ctx context.Context, identity int64) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}

// With returns log with the request id and identity fields from ctx, when
// present. Values placed by WithRequestID and WithIdentity survive the hop
// across layers without every call site threading them by hand.
func With(ctx context.Context, log *zap.SugaredLogger) *zap.SugaredLogger {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		log = log.With("request_id", id)
	}
	if identity, ok := ctx.Value(IdentityKey).(int64); ok {
		log = log.With("identity", identity)
	}
	return log
}
