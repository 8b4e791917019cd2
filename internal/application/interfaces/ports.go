package interfaces

import (
	"context"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
)

type EventEmitter interface {
	Emit(ctx context.Context, event string, payload any) error
}

// PostCache is a read-through cache. GetPost returns nil, nil on a miss.
type PostCache interface {
	GetPost(ctx context.Context, id string) (*entities.Post, error)
	SetPost(ctx context.Context, post *entities.Post, ttl time.Duration) error
	DeletePost(ctx context.Context, id string) error
}

// TokenRegistry records issued tokens. When it is not enabled every token
// with a valid signature is accepted.
type TokenRegistry interface {
	Enabled() bool
	SetToken(ctx context.Context, token, userId string, ttl time.Duration) error
	GetToken(ctx context.Context, token string) (string, error)
}

type ImageReleaser interface {
	Release(ctx context.Context, ref string) error
}
