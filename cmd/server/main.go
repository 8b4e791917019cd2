package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/services"
	"github.com/Arthur-Ayvazyan/rest-api/internal/config"
	httpdelivery "github.com/Arthur-Ayvazyan/rest-api/internal/delivery/http"
	natsdelivery "github.com/Arthur-Ayvazyan/rest-api/internal/delivery/nats"
	"github.com/Arthur-Ayvazyan/rest-api/internal/delivery/ws"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure/db/gormdb"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure/db/memory"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure/db/mongodb"
	"github.com/Arthur-Ayvazyan/rest-api/internal/messaging"
	"github.com/nats-io/nats.go"
)

const module = "cmd/server"

type store struct {
	users repositories.UserRepository
	posts repositories.PostRepository
	close func(context.Context) error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "event", "config_invalid", "module", module, "error", err.Error())
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error",
			"event", "server_failed",
			"module", module,
			"error", err.Error(),
		)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	redisService := infrastructure.NewRedisService(ctx, cfg.Redis, logger)

	images, err := infrastructure.NewDiskImageStore(cfg.ImageDir)
	if err != nil {
		return err
	}

	hub := ws.NewHub(cfg.ClientHost, logger)
	transports := messaging.Fanout{hub}

	var natsTransport *messaging.NatsTransport
	nc := connectNats(cfg, logger)
	if nc != nil {
		natsTransport = messaging.NewNatsTransport(nc, cfg.NatsSubject, logger)
		transports = append(transports, natsTransport)
	}

	broadcaster := messaging.NewBroadcaster(logger)
	if err := broadcaster.Initialize(transports); err != nil {
		return err
	}

	loginLimiter := infrastructure.NewRateLimiter(cfg.LoginRateLimitWindow, cfg.LoginRateLimitMax)
	jwtService := infrastructure.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)

	authService := services.NewAuthService(st.users, jwtService, redisService, loginLimiter, cfg.BcryptCost, logger)
	feedService := services.NewFeedService(st.users, st.posts, broadcaster, redisService, images,
		services.FeedServiceConfig{
			PostsPerPage: cfg.PostsPerPage,
			PostCacheTTL: cfg.PostCacheTTL,
		},
		logger,
	)

	var responder *natsdelivery.Responder
	if nc != nil {
		responder = natsdelivery.NewResponder(authService, natsdelivery.ResponderConfig{
			Prefix:     cfg.NatsSubject,
			QueueGroup: cfg.NatsQueueGroup,
		}, logger)
		if err := responder.Subscribe(nc); err != nil {
			logger.Warn("nats responder disabled",
				"event", "nats_responder_disabled",
				"module", module,
				"error", err.Error(),
			)
			responder = nil
		}
	}

	server := httpdelivery.NewServer(httpdelivery.Config{
		Auth:           authService,
		Feed:           feedService,
		Images:         images,
		Socket:         hub,
		AllowedOrigin:  cfg.ClientHost,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         logger,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening",
			"event", "server_started",
			"module", module,
			"addr", cfg.HTTPAddr,
			"store", cfg.StoreDriver,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	logger.Info("shutting down", "event", "server_shutdown", "module", module)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	hub.Close()
	if responder != nil {
		responder.Close()
	}
	if natsTransport != nil {
		natsTransport.Close()
	}
	loginLimiter.Stop()
	if err := redisService.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := st.close(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// connectNats returns nil when NATS is not configured or unreachable;
// events then only reach websocket clients.
func connectNats(cfg *config.Config, logger *slog.Logger) *nats.Conn {
	if cfg.NatsURL == "" {
		return nil
	}
	nc, err := messaging.ConnectNats(cfg.NatsURL, logger)
	if err != nil {
		logger.Warn("nats unavailable, broadcasting to websocket clients only",
			"event", "nats_disabled",
			"module", module,
			"error", err.Error(),
		)
		return nil
	}
	return nc
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		db, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, logger)
		if err != nil {
			return nil, err
		}
		return &store{
			users: mongodb.NewUserRepository(db),
			posts: mongodb.NewPostRepository(db),
			close: func(ctx context.Context) error { return mongodb.Disconnect(ctx, db) },
		}, nil
	case config.StorePostgres, config.StoreSqlite:
		driver, dsn := gormdb.DriverPostgres, cfg.PostgresDSN
		if cfg.StoreDriver == config.StoreSqlite {
			driver, dsn = gormdb.DriverSqlite, cfg.SqlitePath
		}
		db, err := gormdb.Open(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		return &store{
			users: gormdb.NewUserRepository(db),
			posts: gormdb.NewPostRepository(db),
			close: func(context.Context) error { return gormdb.Close(db) },
		}, nil
	default:
		return &store{
			users: memory.NewUserRepository(),
			posts: memory.NewPostRepository(),
			close: func(context.Context) error { return nil },
		}, nil
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
