package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/command"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/interfaces"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure"
)

const authModule = "internal/application/services/auth"

type AuthService struct {
	userRepo    repositories.UserRepository
	jwtService  *infrastructure.JWTService
	tokens      interfaces.TokenRegistry
	rateLimiter *infrastructure.RateLimiter
	bcryptCost  int
	logger      *slog.Logger
}

var _ interfaces.AuthService = (*AuthService)(nil)

// NewAuthService wires the auth flow. tokens and rateLimiter are optional.
func NewAuthService(
	userRepo repositories.UserRepository,
	jwtService *infrastructure.JWTService,
	tokens interfaces.TokenRegistry,
	rateLimiter *infrastructure.RateLimiter,
	bcryptCost int,
	logger *slog.Logger,
) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		tokens:      tokens,
		rateLimiter: rateLimiter,
		bcryptCost:  bcryptCost,
		logger:      logger,
	}
}

func (s *AuthService) SignUp(ctx context.Context, signUpCommand *command.SignUpCommand) (*command.SignUpCommandResult, error) {
	validatedUser, err := entities.NewValidatedUser(
		entities.NewUser(signUpCommand.Email, signUpCommand.Name, signUpCommand.Password),
	)
	if err != nil {
		return nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(ctx, validatedUser.Email)
	if err != nil {
		return nil, domainerrors.Internal("find user", err)
	}
	if existingUser != nil {
		return nil, domainerrors.ErrEmailTaken
	}

	if err := validatedUser.HashPassword(s.bcryptCost); err != nil {
		return nil, domainerrors.Internal("hash password", err)
	}

	createdUser, err := s.userRepo.Create(ctx, validatedUser)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateEmail) {
			return nil, domainerrors.ErrEmailTaken
		}
		return nil, domainerrors.Internal("create user", err)
	}

	s.logger.Info("user signed up",
		"event", "auth_signup_completed",
		"module", authModule,
		"user_id", createdUser.Id,
	)
	return &command.SignUpCommandResult{
		Message: "User created",
		UserId:  createdUser.Id,
	}, nil
}

// Login fails with the same error for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, loginCommand *command.LoginCommand) (*command.LoginCommandResult, error) {
	email := entities.NormalizeEmail(loginCommand.Email)

	if s.rateLimiter != nil && !s.rateLimiter.Allow(email) {
		s.logger.Warn("login throttled",
			"event", "auth_login_throttled",
			"module", authModule,
		)
		return nil, domainerrors.ErrTooManyAttempts
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, domainerrors.Internal("find user", err)
	}
	if user == nil {
		return nil, domainerrors.ErrWrongCredentials
	}
	if err := user.CheckPassword(loginCommand.Password); err != nil {
		return nil, domainerrors.ErrWrongCredentials
	}

	token, err := s.jwtService.GenerateToken(user.Id, user.Email)
	if err != nil {
		return nil, domainerrors.Internal("issue token", err)
	}

	if s.tokens != nil && s.tokens.Enabled() {
		if err := s.tokens.SetToken(ctx, token, user.Id, s.jwtService.TTL()); err != nil {
			return nil, domainerrors.Internal("register token", err)
		}
	}
	if s.rateLimiter != nil {
		s.rateLimiter.Reset(email)
	}

	s.logger.Info("user logged in",
		"event", "auth_login_completed",
		"module", authModule,
		"user_id", user.Id,
	)
	return &command.LoginCommandResult{
		Token:  token,
		UserId: user.Id,
	}, nil
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domainerrors.ErrNotAuthenticated
	}

	claims, err := s.jwtService.ParseToken(token)
	if err != nil {
		return "", domainerrors.ErrNotAuthenticated
	}

	if s.tokens != nil && s.tokens.Enabled() {
		userId, err := s.tokens.GetToken(ctx, token)
		if err != nil {
			// registry unreachable: fall back to the signature check
			s.logger.Warn("token registry lookup failed",
				"event", "auth_token_lookup_failed",
				"module", authModule,
				"error", err.Error(),
			)
			return claims.UserId, nil
		}
		if userId != claims.UserId {
			return "", domainerrors.ErrNotAuthenticated
		}
	}
	return claims.UserId, nil
}
