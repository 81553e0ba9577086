// Package identity carries the authenticated principal through a request's
// context.Context.
package identity

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

type principalKey struct{}

// WithPrincipal returns a copy of ctx that carries p.
func WithPrincipal(ctx context.Context, p domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the principal attached by WithPrincipal.
func FromContext(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(domain.Principal)
	return p, ok
}

// UserID is a shorthand for FromContext(ctx).UserID.
func UserID(ctx context.Context) (int64, bool) {
	p, ok := FromContext(ctx)
	return p.UserID, ok
}
