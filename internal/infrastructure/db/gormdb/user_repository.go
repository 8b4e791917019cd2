package gormdb

import (
	"context"
	"errors"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	userEntity := user.GetUser()

	id := userEntity.Id
	if id == "" {
		id = uuid.NewString()
	}
	userModel := UserModel{
		Id:        id,
		CreatedAt: userEntity.CreatedAt,
		UpdatedAt: userEntity.UpdatedAt,
		Email:     entities.NormalizeEmail(userEntity.Email),
		Name:      userEntity.Name,
		Password:  userEntity.Password,
		Status:    userEntity.Status,
	}

	if err := r.db.WithContext(ctx).Create(&userModel).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, repositories.ErrDuplicateEmail
		}
		return nil, err
	}

	// Read back the created user to ensure data integrity
	return r.FindById(ctx, id)
}

func (r *UserRepository) FindById(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ?", entities.NormalizeEmail(email))
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	var userModel UserModel
	err := r.db.WithContext(ctx).
		Preload("Posts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where(query, arg).
		First(&userModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapToEntity(&userModel), nil
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&UserModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).Error
}

func (r *UserRepository) AddPost(ctx context.Context, userId string, postId string) error {
	link := UserPostModel{UserId: userId, PostId: postId, CreatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *UserRepository) RemovePost(ctx context.Context, userId string, postId string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userId, postId).
		Delete(&UserPostModel{}).Error
}

func (r *UserRepository) mapToEntity(userModel *UserModel) *entities.User {
	posts := make([]string, 0, len(userModel.Posts))
	for _, link := range userModel.Posts {
		posts = append(posts, link.PostId)
	}
	return &entities.User{
		Id:        userModel.Id,
		CreatedAt: userModel.CreatedAt,
		UpdatedAt: userModel.UpdatedAt,
		Email:     userModel.Email,
		Name:      userModel.Name,
		Password:  userModel.Password,
		Status:    userModel.Status,
		Posts:     posts,
	}
}
