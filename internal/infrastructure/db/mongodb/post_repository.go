package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PostRepository struct {
	posts *mongo.Collection
}

func NewPostRepository(db *mongo.Database) *PostRepository {
	return &PostRepository{posts: db.Collection(postsCollection)}
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Create(ctx context.Context, post *entities.ValidatedPost) (*entities.Post, error) {
	doc, err := postFromEntity(post.GetPost())
	if err != nil {
		return nil, err
	}
	if doc.Id.IsZero() {
		doc.Id = primitive.NewObjectID()
	}
	if _, err := r.posts.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *PostRepository) FindById(ctx context.Context, id string) (*entities.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}

	var doc postDocument
	if err := r.posts.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *PostRepository) List(ctx context.Context, skip, limit int) ([]*entities.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(skip))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.posts.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	posts := make([]*entities.Post, 0, len(docs))
	for _, d := range docs {
		posts = append(posts, d.toEntity())
	}
	return posts, nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	return r.posts.CountDocuments(ctx, bson.D{})
}

func (r *PostRepository) Update(ctx context.Context, post *entities.ValidatedPost) (*entities.Post, error) {
	p := post.GetPost()
	oid, err := primitive.ObjectIDFromHex(p.Id)
	if err != nil {
		return nil, nil
	}

	res, err := r.posts.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":     p.Title,
		"content":   p.Content,
		"imageUrl":  p.ImageUrl,
		"updatedAt": time.Now().UTC(),
	}})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, nil
	}
	return r.FindById(ctx, p.Id)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.posts.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}
