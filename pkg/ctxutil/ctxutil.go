// Package ctxutil carries per-request values through the context without
// creating import cycles between transport and services.
package ctxutil

import "context"

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID attaches the correlation ID to the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx returns the correlation ID, or "" when the request
// did not pass through the RequestID middleware.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
