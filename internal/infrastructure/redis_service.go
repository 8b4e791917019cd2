package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/go-redis/redis/v8"
)

type RedisConfig struct {
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisService backs the post cache and the issued-token registry. A nil
// client means redis is disabled and every call is a no-op miss.
type RedisService struct {
	client *redis.Client
	logger *slog.Logger
}

// NewRedisService connects using cfg.URL when set, otherwise host/port.
// Connection failures disable the service instead of failing startup.
func NewRedisService(ctx context.Context, cfg RedisConfig, logger *slog.Logger) *RedisService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.URL == "" && cfg.Host == "" {
		logger.Info("redis not configured, cache disabled",
			"event", "redis_disabled",
			"module", "internal/infrastructure",
		)
		return &RedisService{logger: logger}
	}

	var opt *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			logger.Warn("invalid REDIS_URL, cache disabled",
				"event", "redis_disabled",
				"module", "internal/infrastructure",
				"error", err.Error(),
			)
			return &RedisService{logger: logger}
		}
		opt = parsed
	} else {
		port := cfg.Port
		if port == "" {
			port = "6379"
		}
		opt = &redis.Options{
			Addr:         fmt.Sprintf("%s:%s", cfg.Host, port),
			Password:     cfg.Password,
			DB:           cfg.DB,
			PoolSize:     10,
			MinIdleConns: 5,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		}
	}

	client := redis.NewClient(opt)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis connection failed, cache disabled",
			"event", "redis_disabled",
			"module", "internal/infrastructure",
			"addr", opt.Addr,
			"error", err.Error(),
		)
		_ = client.Close()
		return &RedisService{logger: logger}
	}

	logger.Info("connected to redis",
		"event", "redis_connected",
		"module", "internal/infrastructure",
		"addr", opt.Addr,
	)
	return NewRedisServiceFromClient(client, logger)
}

func NewRedisServiceFromClient(client *redis.Client, logger *slog.Logger) *RedisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisService{client: client, logger: logger}
}

func (r *RedisService) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *RedisService) SetToken(ctx context.Context, token, userId string, ttl time.Duration) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Set(ctx, "token:"+token, userId, ttl).Err()
}

// GetToken returns the user id a token was issued to, "" when unknown.
func (r *RedisService) GetToken(ctx context.Context, token string) (string, error) {
	if !r.Enabled() {
		return "", nil
	}
	userId, err := r.client.Get(ctx, "token:"+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return userId, err
}

type cachedPost struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageUrl  string    `json:"imageUrl"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *RedisService) SetPost(ctx context.Context, post *entities.Post, ttl time.Duration) error {
	if !r.Enabled() || post == nil {
		return nil
	}
	data, err := json.Marshal(cachedPost{
		Id:        post.Id,
		Title:     post.Title,
		Content:   post.Content,
		ImageUrl:  post.ImageUrl,
		Creator:   post.Creator,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	})
	if err != nil {
		return err
	}
	return r.client.Set(ctx, "post:"+post.Id, data, ttl).Err()
}

// GetPost returns nil, nil on a cache miss.
func (r *RedisService) GetPost(ctx context.Context, id string) (*entities.Post, error) {
	if !r.Enabled() {
		return nil, nil
	}
	data, err := r.client.Get(ctx, "post:"+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cp cachedPost
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, err
	}
	return &entities.Post{
		Id:        cp.Id,
		Title:     cp.Title,
		Content:   cp.Content,
		ImageUrl:  cp.ImageUrl,
		Creator:   cp.Creator,
		CreatedAt: cp.CreatedAt,
		UpdatedAt: cp.UpdatedAt,
	}, nil
}

func (r *RedisService) DeletePost(ctx context.Context, id string) error {
	return r.DeleteKey(ctx, "post:"+id)
}

func (r *RedisService) DeleteKey(ctx context.Context, key string) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Del(ctx, key).Err()
}

func (r *RedisService) Close() error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Close()
}
