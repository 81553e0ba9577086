package ports

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// CommentRepository persists comments. Returned comments have UserEmail set.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	FindByID(ctx context.Context, id int64) (*domain.Comment, error)
	// ListBySong returns comments for songID, newest first.
	ListBySong(ctx context.Context, songID int64) ([]*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}
