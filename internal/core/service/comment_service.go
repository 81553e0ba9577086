package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/soundstage/soundstage-api/internal/core/domain"
	"github.com/soundstage/soundstage-api/internal/core/ports"
)

type CommentService struct {
	comments ports.CommentRepository
	songs    ports.SongRepository
	log      zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, songs ports.SongRepository, log zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, songs: songs, log: log}
}

func (s *CommentService) List(ctx context.Context, songID int64) ([]*domain.Comment, error) {
	comments, err := s.comments.ListBySong(ctx, songID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// Create validates the body before looking the song up, so a bad payload on
// a missing song is a 400 rather than a 404.
func (s *CommentService) Create(ctx context.Context, in ports.CreateCommentInput) (*domain.Comment, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, domain.NewValidationError("Comment content is required")
	}
	if !domain.ValidRating(in.Rating) {
		return nil, domain.NewValidationError("Rating must be between %d and %d", domain.MinRating, domain.MaxRating)
	}

	if _, err := s.songs.FindByID(ctx, in.SongID); err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		Content:   in.Content,
		Rating:    in.Rating,
		UserID:    in.UserID,
		SongID:    in.SongID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment written by userID. Existence is checked before
// authorship.
func (s *CommentService) Delete(ctx context.Context, userID, commentID int64) error {
	comment, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID {
		return domain.ErrNotCommentOwner
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info().Int64("comment_id", commentID).Int64("user_id", userID).Msg("comment deleted")
	return nil
}
