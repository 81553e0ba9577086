package ports

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// UserRepository persists accounts. Email is unique; Create returns
// domain.ErrUserExists on conflict and lookups return domain.ErrUserNotFound.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
}
