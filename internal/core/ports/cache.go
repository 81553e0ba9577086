package ports

import (
	"context"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// LeaderboardCache stores the most recent top-songs result.
type LeaderboardCache interface {
	Get(ctx context.Context) (songs []*domain.Song, ok bool, err error)
	Set(ctx context.Context, songs []*domain.Song) error
	Invalidate(ctx context.Context) error
}

// LoginThrottle counts login attempts per key inside a fixed window.
type LoginThrottle interface {
	// Hit records an attempt and reports whether it is still allowed.
	Hit(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}
