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

type CommentRepository struct {
	db *sqlx.DB
}

func NewCommentRepository(db *sqlx.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

type commentRow struct {
	ID        int64         `db:"id"`
	Content   string        `db:"content"`
	Rating    sql.NullInt32 `db:"rating"`
	UserID    int64         `db:"user_id"`
	SongID    int64         `db:"song_id"`
	UserEmail string        `db:"user_email"`
	CreatedAt time.Time     `db:"created_at"`
}

func (r commentRow) toDomain() *domain.Comment {
	c := &domain.Comment{
		ID:        r.ID,
		Content:   r.Content,
		UserID:    r.UserID,
		SongID:    r.SongID,
		UserEmail: r.UserEmail,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.Rating.Valid {
		v := int(r.Rating.Int32)
		c.Rating = &v
	}
	return c
}

const commentSelect = `SELECT c.id, c.content, c.rating, c.user_id, c.song_id,
		u.email AS user_email, c.created_at
	FROM comments c
	JOIN users u ON u.id = c.user_id`

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	const q = `WITH ins AS (
			INSERT INTO comments (content, rating, user_id, song_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, content, rating, user_id, song_id, created_at
		)
		SELECT ins.id, ins.content, ins.rating, ins.user_id, ins.song_id,
			u.email AS user_email, ins.created_at
		FROM ins
		JOIN users u ON u.id = ins.user_id`

	var row commentRow
	err := r.db.GetContext(ctx, &row, q,
		comment.Content, nullInt(comment.Rating), comment.UserID, comment.SongID, comment.CreatedAt)
	if err != nil {
		if missing := missingReference(err); missing != nil {
			return nil, missing
		}
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	const q = commentSelect + ` WHERE c.id = $1`

	var row commentRow
	if err := r.db.GetContext(ctx, &row, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return row.toDomain(), nil
}

func (r *CommentRepository) ListBySong(ctx context.Context, songID int64) ([]*domain.Comment, error) {
	const q = commentSelect + ` WHERE c.song_id = $1 ORDER BY c.created_at DESC, c.id DESC`

	var rows []commentRow
	if err := r.db.SelectContext(ctx, &rows, q, songID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	out := make([]*domain.Comment, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}
