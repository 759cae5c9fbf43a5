// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them, services read them, and tests
// inject them without running the HTTP stack.
//
// Usage in services:
//
//	adminID := requestcontext.AdminID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in tests:
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "passreg/pkg/domain"
)

type (
	adminIDKey     struct{}
	mainAdminKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// AdminID retrieves the authenticated admin ID from the context.
// Returns the zero value if not set.
func AdminID(ctx context.Context) id.AdminID {
	if adminID, ok := ctx.Value(adminIDKey{}).(id.AdminID); ok {
		return adminID
	}
	return id.AdminID{}
}

// WithAdminID injects an admin ID into the context.
func WithAdminID(ctx context.Context, adminID id.AdminID) context.Context {
	return context.WithValue(ctx, adminIDKey{}, adminID)
}

// IsMainAdmin reports whether the authenticated admin carries the main-admin
// flag. False when unauthenticated.
func IsMainAdmin(ctx context.Context) bool {
	if main, ok := ctx.Value(mainAdminKey{}).(bool); ok {
		return main
	}
	return false
}

// WithMainAdmin marks the context identity as a main admin.
func WithMainAdmin(ctx context.Context, main bool) context.Context {
	return context.WithValue(ctx, mainAdminKey{}, main)
}

// RequestID retrieves the request correlation ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (scheduler runs, tests without injection).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Used by the request-time
// middleware and by tests that pin the clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
