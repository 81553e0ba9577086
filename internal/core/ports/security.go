package ports

import (
	"context"
	"time"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// PasswordHasher hashes and checks passwords. Verify reports false for a
// mismatch and for a malformed hash alike.
type PasswordHasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(ctx context.Context, plain, hash string) bool
}

// TokenIssuer signs access tokens for a principal.
type TokenIssuer interface {
	Issue(p domain.Principal) (token string, expiresAt time.Time, err error)
}

// TokenVerifier checks an access token and returns the principal it was
// issued for. Any failure is reported as domain.ErrTokenInvalid.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}
