package repositories

import (
	"context"
	"errors"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
)

// ErrDuplicateEmail is returned by Create when the unique email index
// rejects the record.
var ErrDuplicateEmail = errors.New("duplicate email")

// UserRepository persists users. Finders return nil, nil when nothing
// matches.
type UserRepository interface {
	Create(ctx context.Context, user *entities.ValidatedUser) (*entities.User, error)
	FindById(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	AddPost(ctx context.Context, userId string, postId string) error
	RemovePost(ctx context.Context, userId string, postId string) error
}
