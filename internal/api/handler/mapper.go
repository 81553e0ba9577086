package handler

import "github.com/soundstage/soundstage-api/internal/core/domain"

// optional maps "" to JSON null, matching how empty optional columns are stored.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toUserView(u *domain.User) userView {
	return userView{ID: u.ID, Email: u.Email, Role: u.Role}
}

func toSongView(s *domain.Song) songView {
	return songView{
		ID:          s.ID,
		Title:       s.Title,
		Description: optional(s.Description),
		AudioURL:    optional(s.AudioURL),
		OwnerEmail:  s.OwnerEmail,
		OwnerID:     s.OwnerID,
		LikeCount:   s.LikeCount,
		CreatedAt:   s.CreatedAt,
	}
}

func toSongViews(songs []*domain.Song) []songView {
	out := make([]songView, 0, len(songs))
	for _, s := range songs {
		out = append(out, toSongView(s))
	}
	return out
}

func toMySongViews(songs []*domain.Song) []mySongView {
	out := make([]mySongView, 0, len(songs))
	for _, s := range songs {
		out = append(out, mySongView{
			ID:          s.ID,
			Title:       s.Title,
			Description: optional(s.Description),
			AudioURL:    optional(s.AudioURL),
			Likes:       s.LikeCount,
			CreatedAt:   s.CreatedAt,
		})
	}
	return out
}

func toCommentView(c *domain.Comment) commentView {
	return commentView{
		ID:        c.ID,
		Content:   c.Content,
		Rating:    c.Rating,
		UserID:    c.UserID,
		SongID:    c.SongID,
		CreatedAt: c.CreatedAt,
		User:      commentAuthorView{ID: c.UserID, Email: c.UserEmail},
	}
}

func toCommentViews(comments []*domain.Comment) []commentView {
	out := make([]commentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentView(c))
	}
	return out
}
