package memory

import (
	"context"
	"sync"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"github.com/google/uuid"
)

type UserRepository struct {
	mu      sync.RWMutex
	byId    map[string]*entities.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		byId:    make(map[string]*entities.User),
		byEmail: make(map[string]string),
	}
}

var _ repositories.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *entities.ValidatedUser) (*entities.User, error) {
	u := user.GetUser().Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[u.Email]; taken {
		return nil, repositories.ErrDuplicateEmail
	}
	if u.Id == "" {
		u.Id = uuid.NewString()
	}
	r.byId[u.Id] = u
	r.byEmail[u.Email] = u.Id
	return u.Clone(), nil
}

func (r *UserRepository) FindById(_ context.Context, id string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.byId[id].Clone(), nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[entities.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	return r.byId[id].Clone(), nil
}

func (r *UserRepository) UpdateStatus(_ context.Context, id string, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byId[id]
	if !ok {
		return nil
	}
	return u.UpdateStatus(status)
}

func (r *UserRepository) AddPost(_ context.Context, userId string, postId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byId[userId]; ok {
		u.AddPost(postId)
	}
	return nil
}

func (r *UserRepository) RemovePost(_ context.Context, userId string, postId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.byId[userId]; ok {
		u.RemovePost(postId)
	}
	return nil
}
