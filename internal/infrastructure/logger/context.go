package logger

import (
	"context"

	"go.uber.org/zap"
)

type scopeKey struct{}

// Scope is the request metadata carried next to the request logger.
type Scope struct {
	RequestID string
	StaffID   string
	Role      string
}

type scoped struct {
	log   *zap.Logger
	scope Scope
}

func current(ctx context.Context) (scoped, bool) {
	s, ok := ctx.Value(scopeKey{}).(scoped)
	return s, ok
}

// Attach stores log in ctx, keeping any scope already there.
func Attach(ctx context.Context, log *zap.Logger) context.Context {
	s, _ := current(ctx)
	s.log = log
	return context.WithValue(ctx, scopeKey{}, s)
}

// From returns the request logger, or a no-op logger outside a request.
func From(ctx context.Context) *zap.Logger {
	if s, ok := current(ctx); ok && s.log != nil {
		return s.log
	}
	return zap.NewNop()
}

// Lookup is From without the no-op fallback.
func Lookup(ctx context.Context) (*zap.Logger, bool) {
	s, ok := current(ctx)
	if !ok || s.log == nil {
		return nil, false
	}
	return s.log, true
}

// ScopeOf returns the request metadata in ctx; the zero Scope outside a request.
func ScopeOf(ctx context.Context) Scope {
	s, _ := current(ctx)
	return s.scope
}

// WithRequest starts a request scope and tags log with the request id.
func WithRequest(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	s, _ := current(ctx)
	s.scope.RequestID = requestID
	s.log = log.With(zap.String("request_id", requestID))
	return context.WithValue(ctx, scopeKey{}, s), s.log
}

// WithStaff records the authenticated staff member on the request scope.
func WithStaff(ctx context.Context, staffID, role string) context.Context {
	s, _ := current(ctx)
	s.scope.StaffID = staffID
	s.scope.Role = role
	if s.log != nil {
		s.log = s.log.With(zap.String("user_id", staffID), zap.String("role", role))
	}
	return context.WithValue(ctx, scopeKey{}, s)
}
