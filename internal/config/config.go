package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
	StoreSqlite   = "sqlite"
)

type Config struct {
	HTTPAddr string

	StoreDriver   string
	MongoURI      string
	MongoDatabase string
	PostgresDSN   string
	SqlitePath    string

	Redis infrastructure.RedisConfig

	NatsURL        string
	NatsSubject    string
	NatsQueueGroup string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	ImageDir       string
	MaxUploadBytes int64
	PostsPerPage   int
	PostCacheTTL   time.Duration

	RateLimitRPS         float64
	RateLimitBurst       int
	LoginRateLimitWindow time.Duration
	LoginRateLimitMax    int

	ClientHost string
	LogLevel   string
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr: infrastructure.GetEnvAsString("HTTP_ADDR", ":8080"),

		StoreDriver:   infrastructure.GetEnvAsString("STORE_DRIVER", ""),
		MongoURI:      infrastructure.GetEnvAsString("MONGO_URI", ""),
		MongoDatabase: infrastructure.GetEnvAsString("MONGO_DATABASE", "messages"),
		PostgresDSN:   infrastructure.GetEnvAsString("POSTGRES_DSN", ""),
		SqlitePath:    infrastructure.GetEnvAsString("SQLITE_PATH", "feed.db"),

		Redis: infrastructure.RedisConfig{
			URL:      infrastructure.GetEnvAsString("REDIS_URL", ""),
			Host:     infrastructure.GetEnvAsString("REDIS_HOST", ""),
			Port:     infrastructure.GetEnvAsString("REDIS_PORT", "6379"),
			Password: infrastructure.GetEnvAsString("REDIS_PASSWORD", ""),
			DB:       infrastructure.GetEnvAsInt("REDIS_DB", 0),
		},

		NatsURL:        infrastructure.GetEnvAsString("NATS_URL", ""),
		NatsSubject:    infrastructure.GetEnvAsString("NATS_SUBJECT", "feed"),
		NatsQueueGroup: infrastructure.GetEnvAsString("NATS_QUEUE_GROUP", "feed-service"),

		JWTSecret:  infrastructure.GetEnvAsString("JWT_SECRET", ""),
		TokenTTL:   infrastructure.GetEnvAsDuration("TOKEN_TTL", time.Hour),
		BcryptCost: infrastructure.GetEnvAsInt("BCRYPT_COST", 12),

		ImageDir:       infrastructure.GetEnvAsString("IMAGE_DIR", "images"),
		MaxUploadBytes: int64(infrastructure.GetEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),
		PostsPerPage:   infrastructure.GetEnvAsInt("POSTS_PER_PAGE", 2),
		PostCacheTTL:   infrastructure.GetEnvAsDuration("POST_CACHE_TTL", 10*time.Minute),

		RateLimitRPS:         infrastructure.GetEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst:       infrastructure.GetEnvAsInt("RATE_LIMIT_BURST", 0),
		LoginRateLimitWindow: infrastructure.GetEnvAsDuration("LOGIN_RATE_LIMIT_WINDOW", 15*time.Minute),
		LoginRateLimitMax:    infrastructure.GetEnvAsInt("LOGIN_RATE_LIMIT_MAX", 5),

		ClientHost: infrastructure.GetEnvAsString("CLIENT_HOST", "*"),
		LogLevel:   infrastructure.GetEnvAsString("LOG_LEVEL", "info"),
	}

	if cfg.StoreDriver == "" {
		cfg.StoreDriver = StoreMemory
		if cfg.MongoURI != "" {
			cfg.StoreDriver = StoreMongo
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreDriver {
	case StoreMemory:
	case StoreMongo:
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store")
		}
	case StoreSqlite:
		if c.SqlitePath == "" {
			return errors.New("SQLITE_PATH is required for the sqlite store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.PostsPerPage <= 0 {
		return fmt.Errorf("POSTS_PER_PAGE must be positive, got %d", c.PostsPerPage)
	}
	return nil
}
