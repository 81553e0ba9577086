package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Comment is a user's note on a song with an optional 1..5 rating.
type Comment struct {
	ID        int64
	Content   string
	Rating    *int
	UserID    int64
	UserEmail string
	SongID    int64
	CreatedAt time.Time
}

// ValidRating reports whether r is absent or within [MinRating, MaxRating].
func ValidRating(r *int) bool {
	return r == nil || (*r >= MinRating && *r <= MaxRating)
}
