package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/soundstage/soundstage-api/internal/core/domain"
)

// SongRepository keeps like_count and owner_email denormalised on the song
// document so the leaderboard is a single indexed query.
type SongRepository struct {
	songs    *mongo.Collection
	likes    *mongo.Collection
	comments *mongo.Collection
	users    *UserRepository
	ids      *sequence
}

func NewSongRepository(db *mongo.Database) *SongRepository {
	return &SongRepository{
		songs:    db.Collection(songsCollection),
		likes:    db.Collection(likesCollection),
		comments: db.Collection(commentsCollection),
		users:    NewUserRepository(db),
		ids:      newSequence(db, songsCollection),
	}
}

type songDoc struct {
	ID          int64     `bson:"_id"`
	Title       string    `bson:"title"`
	Description string    `bson:"description,omitempty"`
	AudioURL    string    `bson:"audio_url,omitempty"`
	OwnerID     int64     `bson:"owner_id"`
	OwnerEmail  string    `bson:"owner_email"`
	LikeCount   int64     `bson:"like_count"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d songDoc) toDomain() *domain.Song {
	return &domain.Song{
		ID:          d.ID,
		Title:       d.Title,
		Description: d.Description,
		AudioURL:    d.AudioURL,
		OwnerID:     d.OwnerID,
		OwnerEmail:  d.OwnerEmail,
		LikeCount:   d.LikeCount,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

type likeDoc struct {
	UserID    int64     `bson:"user_id"`
	SongID    int64     `bson:"song_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (r *SongRepository) Create(ctx context.Context, song *domain.Song) (*domain.Song, error) {
	owner, err := r.users.FindByID(ctx, song.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("insert song: owner: %w", err)
	}

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := songDoc{
		ID:          id,
		Title:       song.Title,
		Description: song.Description,
		AudioURL:    song.AudioURL,
		OwnerID:     owner.ID,
		OwnerEmail:  owner.Email,
		CreatedAt:   song.CreatedAt.UTC(),
	}
	if _, err := r.songs.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert song: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SongRepository) FindByID(ctx context.Context, id int64) (*domain.Song, error) {
	var doc songDoc
	if err := r.songs.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSongNotFound
		}
		return nil, fmt.Errorf("find song: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *SongRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Song, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{"owner_id": ownerID}, opts)
}

func (r *SongRepository) Top(ctx context.Context, limit int) ([]*domain.Song, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "like_count", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{}, opts)
}

func (r *SongRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Song, error) {
	cur, err := r.songs.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list songs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []songDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode songs: %w", err)
	}

	out := make([]*domain.Song, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

// Delete removes the song first, then its likes and comments. Orphans left by
// a failure between steps are never read because every read starts from a song.
func (r *SongRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.songs.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete song: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSongNotFound
	}

	if _, err := r.likes.DeleteMany(ctx, bson.M{"song_id": id}); err != nil {
		return fmt.Errorf("delete song likes: %w", err)
	}
	if _, err := r.comments.DeleteMany(ctx, bson.M{"song_id": id}); err != nil {
		return fmt.Errorf("delete song comments: %w", err)
	}
	return nil
}

// AddLike inserts the like; the unique (user_id, song_id) index rejects a
// repeat before like_count is touched.
func (r *SongRepository) AddLike(ctx context.Context, userID, songID int64) error {
	_, err := r.likes.InsertOne(ctx, likeDoc{UserID: userID, SongID: songID, CreatedAt: time.Now().UTC()})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyLiked
		}
		return fmt.Errorf("insert like: %w", err)
	}

	res, err := r.songs.UpdateOne(ctx, bson.M{"_id": songID}, bson.M{"$inc": bson.M{"like_count": int64(1)}})
	if err != nil {
		return fmt.Errorf("increment like count: %w", err)
	}
	if res.MatchedCount == 0 {
		// Song deleted between lookup and insert.
		_, delErr := r.likes.DeleteOne(ctx, bson.M{"user_id": userID, "song_id": songID})
		return orphanLikeError(delErr)
	}
	return nil
}

// orphanLikeError reports a like whose song vanished. A failed cleanup is
// kept alongside ErrSongNotFound so the stray like is not silently lost.
func orphanLikeError(cleanupErr error) error {
	if cleanupErr == nil {
		return domain.ErrSongNotFound
	}
	return errors.Join(domain.ErrSongNotFound, fmt.Errorf("remove orphan like: %w", cleanupErr))
}
