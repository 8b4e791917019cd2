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
)

type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{users: db.Collection(usersCollection)}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	doc, err := userFromEntity(user.GetUser())
	if err != nil {
		return nil, err
	}
	if doc.Id.IsZero() {
		doc.Id = primitive.NewObjectID()
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, repositories.ErrDuplicateEmail
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) FindById(ctx context.Context, id string) (*entities.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, bson.M{"email": entities.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*entities.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"status": status, "updatedAt": time.Now().UTC()}})
}

func (r *UserRepository) AddPost(ctx context.Context, userId string, postId string) error {
	pid, err := primitive.ObjectIDFromHex(postId)
	if err != nil {
		return err
	}
	return r.update(ctx, userId, bson.M{
		"$addToSet": bson.M{"posts": pid},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *UserRepository) RemovePost(ctx context.Context, userId string, postId string) error {
	pid, err := primitive.ObjectIDFromHex(postId)
	if err != nil {
		return err
	}
	return r.update(ctx, userId, bson.M{
		"$pull": bson.M{"posts": pid},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (r *UserRepository) update(ctx context.Context, id string, change bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	_, err = r.users.UpdateByID(ctx, oid, change)
	return err
}
