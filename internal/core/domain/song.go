package domain

import "time"

// Song is uploaded metadata for a track. LikeCount and OwnerEmail are
// read-side projections filled in by the repositories.
type Song struct {
	ID          int64
	Title       string
	Description string
	AudioURL    string
	OwnerID     int64
	OwnerEmail  string
	LikeCount   int64
	CreatedAt   time.Time
}

// TopSongsLimit caps the leaderboard.
const TopSongsLimit = 50
