package httpdelivery

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/interfaces"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

const (
	module = "internal/delivery/http"

	defaultMaxUploadBytes = 10 << 20
)

// ImageStore persists uploaded images and releases them again.
type ImageStore interface {
	Save(ctx context.Context, contentType string, r io.Reader) (string, error)
	Release(ctx context.Context, ref string) error
	Dir() string
}

type Config struct {
	Auth   interfaces.AuthService
	Feed   interfaces.FeedService
	Images ImageStore
	// Socket serves the realtime channel at /socket when set.
	Socket http.Handler

	AllowedOrigin  string
	RateLimitRPS   float64
	RateLimitBurst int
	MaxUploadBytes int64
	Logger         *slog.Logger
}

type Server struct {
	router         *mux.Router
	auth           interfaces.AuthService
	feed           interfaces.FeedService
	images         ImageStore
	limiter        *rate.Limiter
	allowedOrigin  string
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "*"
	}

	s := &Server{
		router:         mux.NewRouter(),
		auth:           cfg.Auth,
		feed:           cfg.Feed,
		images:         cfg.Images,
		allowedOrigin:  cfg.AllowedOrigin,
		maxUploadBytes: cfg.MaxUploadBytes,
		logger:         logger,
	}
	if cfg.RateLimitRPS > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = int(cfg.RateLimitRPS) + 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), burst)
	}
	s.registerRoutes(cfg.Socket)
	return s
}

func (s *Server) registerRoutes(socket http.Handler) {
	s.router.Use(s.recoverer, s.requestLogger, s.cors, s.throttle)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	auth := s.router.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/signup", s.handleSignUp).Methods(http.MethodPost, http.MethodPut)
	auth.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	feed := s.router.PathPrefix("/feed").Subrouter()
	feed.Use(s.authenticate)
	feed.HandleFunc("/posts", s.handleListPosts).Methods(http.MethodGet)
	feed.HandleFunc("/post", s.handleCreatePost).Methods(http.MethodPost)
	feed.HandleFunc("/post/{postId}", s.handleGetPost).Methods(http.MethodGet)
	feed.HandleFunc("/post/{postId}", s.handleUpdatePost).Methods(http.MethodPut)
	feed.HandleFunc("/post/{postId}", s.handleDeletePost).Methods(http.MethodDelete)
	feed.HandleFunc("/status", s.handleGetStatus).Methods(http.MethodGet)
	feed.HandleFunc("/status", s.handleUpdateStatus).Methods(http.MethodPut, http.MethodPatch)

	if socket != nil {
		s.router.Handle("/socket", socket)
	}
	if s.images != nil {
		s.router.PathPrefix("/images/").Handler(
			http.StripPrefix("/images/", http.FileServer(http.Dir(s.images.Dir()))),
		).Methods(http.MethodGet, http.MethodHead)
	}

	// OPTIONS must reach the cors middleware even for paths that only
	// register other methods.
	s.router.MethodNotAllowedHandler = s.cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "Method not allowed."})
	}))
	s.router.NotFoundHandler = s.cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Message: "Not found."})
	}))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
