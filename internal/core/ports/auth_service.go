package ports

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// RegisterInput carries a new account. An empty Role means domain.RoleAudience.
type RegisterInput struct {
	Email    string
	Password string
	Role     string
}

// AuthResult is returned by a successful registration or login.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
}
