package ports

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// CreateSongInput carries a new song for OwnerID.
type CreateSongInput struct {
	OwnerID     int64
	Title       string
	Description string
	AudioURL    string
}

// LikeResult reports whether the like was already present.
type LikeResult struct {
	AlreadyLiked bool
}

type SongService interface {
	Top(ctx context.Context) ([]*domain.Song, error)
	Mine(ctx context.Context, ownerID int64) ([]*domain.Song, error)
	Get(ctx context.Context, id int64) (*domain.Song, error)
	Create(ctx context.Context, input CreateSongInput) (*domain.Song, error)
	Delete(ctx context.Context, userID, songID int64) error
	Like(ctx context.Context, userID, songID int64) (LikeResult, error)
}
