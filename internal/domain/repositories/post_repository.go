package repositories

import (
	"context"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
)

// PostRepository persists posts. FindById returns nil, nil for an unknown id.
type PostRepository interface {
	Create(ctx context.Context, post *entities.ValidatedPost) (*entities.Post, error)
	FindById(ctx context.Context, id string) (*entities.Post, error)
	// List returns posts ordered by creation time, newest first.
	List(ctx context.Context, skip, limit int) ([]*entities.Post, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, post *entities.ValidatedPost) (*entities.Post, error)
	Delete(ctx context.Context, id string) error
}
