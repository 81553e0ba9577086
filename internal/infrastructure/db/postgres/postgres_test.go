package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

func TestPgErrorClassification(t *testing.T) {
	unique := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeUniqueViolation})
	fk := &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "likes_song_id_fkey"}

	if !isUniqueViolation(unique) || missingReference(unique) != nil {
		t.Fatalf("wrapped unique violation misclassified")
	}
	if isUniqueViolation(fk) {
		t.Fatalf("foreign key violation misclassified")
	}
	if isUniqueViolation(errors.New("boom")) || isUniqueViolation(sql.ErrNoRows) {
		t.Fatalf("plain errors must not be classified")
	}
}

func TestMissingReference(t *testing.T) {
	cases := []struct {
		constraint string
		want       error
	}{
		{"comments_song_id_fkey", domain.ErrSongNotFound},
		{"likes_song_id_fkey", domain.ErrSongNotFound},
		{"comments_user_id_fkey", domain.ErrUserNotFound},
		{"likes_user_id_fkey", domain.ErrUserNotFound},
		{"songs_owner_id_fkey", domain.ErrUserNotFound},
		{"something_else", nil},
	}
	for _, tc := range cases {
		err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: tc.constraint})
		if got := missingReference(err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.constraint, tc.want, got)
		}
	}

	if missingReference(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "likes_user_id_fkey"}) != nil {
		t.Fatalf("only foreign key violations map to a missing reference")
	}
	if missingReference(errors.New("boom")) != nil {
		t.Fatalf("plain errors must not map to a missing reference")
	}
}

func TestNullHelpers(t *testing.T) {
	if nullString("").Valid {
		t.Fatalf("empty string must map to NULL")
	}
	if ns := nullString("x"); !ns.Valid || ns.String != "x" {
		t.Fatalf("unexpected NullString %+v", ns)
	}
	if nullInt(nil).Valid {
		t.Fatalf("nil rating must map to NULL")
	}
	v := 4
	if ni := nullInt(&v); !ni.Valid || ni.Int32 != 4 {
		t.Fatalf("unexpected NullInt32 %+v", ni)
	}
}

func TestRowMapping(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("X", 3600))

	s := songRow{ID: 1, Title: "t", Description: sql.NullString{}, OwnerID: 2, OwnerEmail: "o@x", LikeCount: 3, CreatedAt: created}.toDomain()
	if s.Description != "" || s.LikeCount != 3 || s.CreatedAt.Location() != time.UTC {
		t.Fatalf("unexpected song mapping: %+v", s)
	}

	c := commentRow{ID: 1, Content: "hi", Rating: sql.NullInt32{Int32: 5, Valid: true}, CreatedAt: created}.toDomain()
	if c.Rating == nil || *c.Rating != 5 {
		t.Fatalf("expected rating 5, got %v", c.Rating)
	}
	if c2 := (commentRow{}).toDomain(); c2.Rating != nil {
		t.Fatalf("expected nil rating")
	}
}

func TestSchemaStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range schema {
		if !strings.Contains(stmt, "IF NOT EXISTS") {
			t.Fatalf("statement is not idempotent: %s", stmt)
		}
	}
}
