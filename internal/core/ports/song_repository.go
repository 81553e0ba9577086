package ports

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// SongRepository persists songs and their likes.
type SongRepository interface {
	Create(ctx context.Context, song *domain.Song) (*domain.Song, error)
	// FindByID returns domain.ErrSongNotFound when no song has the id.
	FindByID(ctx context.Context, id int64) (*domain.Song, error)
	// ListByOwner returns the owner's songs, newest first.
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Song, error)
	// Top returns up to limit songs ordered by like count, most liked first.
	Top(ctx context.Context, limit int) ([]*domain.Song, error)
	// Delete removes the song along with its likes and comments.
	Delete(ctx context.Context, id int64) error
	// AddLike stores a (user, song) like. A pair that already exists yields
	// domain.ErrAlreadyLiked and leaves the count unchanged.
	AddLike(ctx context.Context, userID, songID int64) error
}
