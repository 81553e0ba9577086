package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

type SongRepository struct {
	db *sqlx.DB
}

func NewSongRepository(db *sqlx.DB) *SongRepository {
	return &SongRepository{db: db}
}

type songRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description sql.NullString `db:"description"`
	AudioURL    sql.NullString `db:"audio_url"`
	OwnerID     int64          `db:"owner_id"`
	OwnerEmail  string         `db:"owner_email"`
	LikeCount   int64          `db:"like_count"`
	CreatedAt   time.Time      `db:"created_at"`
}

func (r songRow) toDomain() *domain.Song {
	return &domain.Song{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description.String,
		AudioURL:    r.AudioURL.String,
		OwnerID:     r.OwnerID,
		OwnerEmail:  r.OwnerEmail,
		LikeCount:   r.LikeCount,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

const songSelect = `SELECT s.id, s.title, s.description, s.audio_url, s.owner_id,
		u.email AS owner_email,
		(SELECT COUNT(*) FROM likes l WHERE l.song_id = s.id) AS like_count,
		s.created_at
	FROM songs s
	JOIN users u ON u.id = s.owner_id`

func (r *SongRepository) Create(ctx context.Context, song *domain.Song) (*domain.Song, error) {
	const q = `WITH ins AS (
			INSERT INTO songs (title, description, audio_url, owner_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, title, description, audio_url, owner_id, created_at
		)
		SELECT ins.id, ins.title, ins.description, ins.audio_url, ins.owner_id,
			u.email AS owner_email, 0 AS like_count, ins.created_at
		FROM ins
		JOIN users u ON u.id = ins.owner_id`

	var row songRow
	err := r.db.GetContext(ctx, &row, q,
		song.Title, nullString(song.Description), nullString(song.AudioURL), song.OwnerID, song.CreatedAt)
	if err != nil {
		if missing := missingReference(err); missing != nil {
			return nil, missing
		}
		return nil, fmt.Errorf("insert song: %w", err)
	}
	return row.toDomain(), nil
}

func (r *SongRepository) FindByID(ctx context.Context, id int64) (*domain.Song, error) {
	const q = songSelect + ` WHERE s.id = $1`

	var row songRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("find song: %w", err)
	}
	return row.toDomain(), nil
}

func (r *SongRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Song, error) {
	const q = songSelect + ` WHERE s.owner_id = $1 ORDER BY s.created_at DESC, s.id DESC`
	return r.list(ctx, q, ownerID)
}

func (r *SongRepository) Top(ctx context.Context, limit int) ([]*domain.Song, error) {
	const q = songSelect + ` ORDER BY like_count DESC, s.created_at DESC LIMIT $1`
	return r.list(ctx, q, limit)
}

func (r *SongRepository) list(ctx context.Context, q string, arg any) ([]*domain.Song, error) {
	var rows []songRow
	if err := r.db.SelectContext(ctx, &rows, q, arg); err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	out := make([]*domain.Song, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Delete relies on ON DELETE CASCADE for likes and comments.
func (r *SongRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrSongNotFound
	}
	return nil
}

func (r *SongRepository) AddLike(ctx context.Context, userID, songID int64) error {
	const q = `INSERT INTO likes (user_id, song_id) VALUES ($1, $2)
		ON CONFLICT (user_id, song_id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, q, userID, songID)
	if err != nil {
		if missing := missingReference(err); missing != nil {
			return missing
		}
		return fmt.Errorf("insert like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert like: %w", err)
	}
	if n == 0 {
		return domain.ErrAlreadyLiked
	}
	return nil
}
