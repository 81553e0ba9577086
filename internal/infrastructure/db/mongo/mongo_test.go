package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

func TestSongDoc_BSONRoundTripKeepsDenormalisedFields(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	in := songDoc{ID: 9, Title: "t", OwnerID: 2, OwnerEmail: "o@x.io", LikeCount: 4, CreatedAt: created}

	raw, err := bson.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["description"]; ok {
		t.Fatalf("empty description must be omitted")
	}
	if m["owner_email"] != "o@x.io" || m["like_count"] != int64(4) || m["_id"] != int64(9) {
		t.Fatalf("unexpected document: %+v", m)
	}

	s := in.toDomain()
	if s.OwnerEmail != "o@x.io" || s.LikeCount != 4 || !s.CreatedAt.Equal(created) {
		t.Fatalf("unexpected domain song: %+v", s)
	}
}

func TestCommentDoc_OmitsMissingRating(t *testing.T) {
	raw, err := bson.Marshal(commentDoc{ID: 1, Content: "hi"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["rating"]; ok {
		t.Fatalf("nil rating must be omitted")
	}
}

func TestOrphanLikeError(t *testing.T) {
	if err := orphanLikeError(nil); err != domain.ErrSongNotFound {
		t.Fatalf("clean removal should report ErrSongNotFound only, got %v", err)
	}

	cleanup := errors.New("write concern timeout")
	err := orphanLikeError(cleanup)
	if !errors.Is(err, domain.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
	if !errors.Is(err, cleanup) {
		t.Fatalf("cleanup failure must be kept, got %v", err)
	}
}
