package gormdb

import (
	"context"
	"errors"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Create(ctx context.Context, post *entities.ValidatedPost) (*entities.Post, error) {
	p := post.GetPost()

	id := p.Id
	if id == "" {
		id = uuid.NewString()
	}
	postModel := PostModel{
		Id:        id,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Title:     p.Title,
		Content:   p.Content,
		ImageUrl:  p.ImageUrl,
		Creator:   p.Creator,
	}
	if err := r.db.WithContext(ctx).Create(&postModel).Error; err != nil {
		return nil, err
	}
	return mapPost(&postModel), nil
}

func (r *PostRepository) FindById(ctx context.Context, id string) (*entities.Post, error) {
	var postModel PostModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&postModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return mapPost(&postModel), nil
}

func (r *PostRepository) List(ctx context.Context, skip, limit int) ([]*entities.Post, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Offset(skip)
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []PostModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	posts := make([]*entities.Post, 0, len(rows))
	for i := range rows {
		posts = append(posts, mapPost(&rows[i]))
	}
	return posts, nil
}

func (r *PostRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&PostModel{}).Count(&total).Error
	return total, err
}

func (r *PostRepository) Update(ctx context.Context, post *entities.ValidatedPost) (*entities.Post, error) {
	p := post.GetPost()

	res := r.db.WithContext(ctx).
		Model(&PostModel{}).
		Where("id = ?", p.Id).
		Updates(map[string]any{
			"title":      p.Title,
			"content":    p.Content,
			"image_url":  p.ImageUrl,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindById(ctx, p.Id)
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&PostModel{}, "id = ?", id).Error
}

func mapPost(m *PostModel) *entities.Post {
	return &entities.Post{
		Id:        m.Id,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		Title:     m.Title,
		Content:   m.Content,
		ImageUrl:  m.ImageUrl,
		Creator:   m.Creator,
	}
}
