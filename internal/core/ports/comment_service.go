package ports

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// CreateCommentInput carries a new comment by UserID on SongID.
type CreateCommentInput struct {
	UserID  int64
	SongID  int64
	Content string
	Rating  *int
}

type CommentService interface {
	List(ctx context.Context, songID int64) ([]*domain.Comment, error)
	Create(ctx context.Context, input CreateCommentInput) (*domain.Comment, error)
	Delete(ctx context.Context, userID, commentID int64) error
}
