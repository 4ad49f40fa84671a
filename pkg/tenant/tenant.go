// Package tenant carries the caller's tenant identity through context.
// It is the only channel by which tenant scope reaches the query engine;
// tenant identifiers arriving through request parameters are never trusted.
package tenant

import "context"

type contextKey struct{}

// WithTenant returns a child context carrying the given tenant identifier.
func WithTenant(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the tenant identifier from the context.
// The second return value reports whether a non-empty identifier was present.
func FromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(contextKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
