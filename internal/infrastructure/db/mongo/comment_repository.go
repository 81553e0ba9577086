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

type CommentRepository struct {
	coll  *mongo.Collection
	users *UserRepository
	ids   *sequence
}

func NewCommentRepository(db *mongo.Database) *CommentRepository {
	return &CommentRepository{
		coll:  db.Collection(commentsCollection),
		users: NewUserRepository(db),
		ids:   newSequence(db, commentsCollection),
	}
}

type commentDoc struct {
	ID        int64     `bson:"_id"`
	Content   string    `bson:"content"`
	Rating    *int      `bson:"rating,omitempty"`
	UserID    int64     `bson:"user_id"`
	UserEmail string    `bson:"user_email"`
	SongID    int64     `bson:"song_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d commentDoc) toDomain() *domain.Comment {
	return &domain.Comment{
		ID:        d.ID,
		Content:   d.Content,
		Rating:    d.Rating,
		UserID:    d.UserID,
		UserEmail: d.UserEmail,
		SongID:    d.SongID,
		CreatedAt: d.CreatedAt.UTC(),
	}
}

func (r *CommentRepository) Create(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	author, err := r.users.FindByID(ctx, comment.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert comment: author: %w", err)
	}

	id, err := r.ids.next(ctx)
	if err != nil {
		return nil, err
	}

	doc := commentDoc{
		ID:        id,
		Content:   comment.Content,
		Rating:    comment.Rating,
		UserID:    author.ID,
		UserEmail: author.Email,
		SongID:    comment.SongID,
		CreatedAt: comment.CreatedAt.UTC(),
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) FindByID(ctx context.Context, id int64) (*domain.Comment, error) {
	var doc commentDoc
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, fmt.Errorf("find comment: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *CommentRepository) ListBySong(ctx context.Context, songID int64) ([]*domain.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := r.coll.Find(ctx, bson.M{"song_id": songID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer cur.Close(ctx)

	var docs []commentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	out := make([]*domain.Comment, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}
