// Package postgres implements the repositories on PostgreSQL through sqlx
// and the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

const defaultConnectTimeout = 5 * time.Second

// Postgres error codes the repositories translate into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// Config captures the connection string and pool settings.
type Config struct {
	URL            string
	MaxOpen        int
	MaxIdle        int
	MaxLifetime    time.Duration
	ConnectTimeout time.Duration
}

// Connect opens a pooled connection and fails fast when the server is
// unreachable.
func Connect(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	pgCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parse dsn: %w", err)
	}

	pgCfg.ConnectTimeout = cfg.ConnectTimeout
	if pgCfg.ConnectTimeout <= 0 {
		pgCfg.ConnectTimeout = defaultConnectTimeout
	}

	db := sqlx.NewDb(stdlib.OpenDB(*pgCfg), "pgx")

	if cfg.MaxOpen > 0 {
		db.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.MaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pgCfg.ConnectTimeout)
	defer cancel()

	var one int
	if err := db.QueryRowContext(pingCtx, "SELECT 1").Scan(&one); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: health check: %w", err)
	}

	return db, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool { return pgCode(err) == codeUniqueViolation }

// missingReference maps a foreign key violation to the not-found error of the
// referenced row, using Postgres' default "<table>_<column>_fkey" names.
// It returns nil for any other error.
func missingReference(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeForeignKeyViolation {
		return nil
	}
	switch {
	case strings.HasSuffix(pgErr.ConstraintName, "_user_id_fkey"),
		strings.HasSuffix(pgErr.ConstraintName, "_owner_id_fkey"):
		return domain.ErrUserNotFound
	case strings.HasSuffix(pgErr.ConstraintName, "_song_id_fkey"):
		return domain.ErrSongNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(p *int) sql.NullInt32 {
	if p == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*p), Valid: true}
}
