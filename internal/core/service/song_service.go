package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/soundstage/soundstage-api/internal/core/domain"
	"github.com/soundstage/soundstage-api/internal/core/ports"
)

type SongService struct {
	songs ports.SongRepository
	cache ports.LeaderboardCache
	log   zerolog.Logger
}

// NewSongService returns a SongService. cache may be nil to disable
// leaderboard caching.
func NewSongService(songs ports.SongRepository, cache ports.LeaderboardCache, log zerolog.Logger) *SongService {
	return &SongService{songs: songs, cache: cache, log: log}
}

// Top returns the most liked songs. A cached result is served when present;
// cache failures fall through to the repository.
func (s *SongService) Top(ctx context.Context) ([]*domain.Song, error) {
	if s.cache != nil {
		songs, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache read failed")
		} else if ok {
			return songs, nil
		}
	}

	songs, err := s.songs.Top(ctx, domain.TopSongsLimit)
	if err != nil {
		return nil, fmt.Errorf("top songs: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, songs); err != nil {
			s.log.Warn().Err(err).Msg("leaderboard cache write failed")
		}
	}
	return songs, nil
}

func (s *SongService) Mine(ctx context.Context, ownerID int64) ([]*domain.Song, error) {
	songs, err := s.songs.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	return songs, nil
}

func (s *SongService) Get(ctx context.Context, id int64) (*domain.Song, error) {
	return s.songs.FindByID(ctx, id)
}

func (s *SongService) Create(ctx context.Context, in ports.CreateSongInput) (*domain.Song, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, domain.NewValidationError("Title is required")
	}

	song, err := s.songs.Create(ctx, &domain.Song{
		Title:       in.Title,
		Description: in.Description,
		AudioURL:    in.AudioURL,
		OwnerID:     in.OwnerID,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create song: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info().Int64("song_id", song.ID).Int64("owner_id", song.OwnerID).Msg("song created")
	return song, nil
}

// Delete removes a song owned by userID. A missing song is reported before
// ownership is considered.
func (s *SongService) Delete(ctx context.Context, userID, songID int64) error {
	song, err := s.songs.FindByID(ctx, songID)
	if err != nil {
		return err
	}
	if song.OwnerID != userID {
		return domain.ErrNotSongOwner
	}

	if err := s.songs.Delete(ctx, songID); err != nil {
		return fmt.Errorf("delete song: %w", err)
	}

	s.invalidate(ctx)
	s.log.Info().Int64("song_id", songID).Int64("owner_id", userID).Msg("song deleted")
	return nil
}

// Like records userID's like on songID. Liking twice succeeds and reports
// AlreadyLiked; the stored count only moves on the first like.
func (s *SongService) Like(ctx context.Context, userID, songID int64) (ports.LikeResult, error) {
	if _, err := s.songs.FindByID(ctx, songID); err != nil {
		return ports.LikeResult{}, err
	}

	if err := s.songs.AddLike(ctx, userID, songID); err != nil {
		if errors.Is(err, domain.ErrAlreadyLiked) {
			return ports.LikeResult{AlreadyLiked: true}, nil
		}
		if errors.Is(err, domain.ErrSongNotFound) && err != domain.ErrSongNotFound {
			// The song vanished mid-like and the store reported more than that.
			s.log.Warn().Err(err).Int64("song_id", songID).Int64("user_id", userID).Msg("like on deleted song")
		}
		return ports.LikeResult{}, fmt.Errorf("like song: %w", err)
	}

	s.invalidate(ctx)
	return ports.LikeResult{}, nil
}

func (s *SongService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("leaderboard cache invalidation failed")
	}
}
