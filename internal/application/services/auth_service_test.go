package services

import (
	"context"
	"testing"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/command"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/interfaces"
	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure/db/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthService(t *testing.T, tokens *mapTokens, limiter *infrastructure.RateLimiter) (*AuthService, *memory.UserRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	jwtService := newJWT()
	var registry interfaces.TokenRegistry
	if tokens != nil {
		registry = tokens
	}
	svc := NewAuthService(users, jwtService, registry, limiter, bcrypt.MinCost, nil)
	return svc, users
}

func TestSignUpHashesPassword(t *testing.T) {
	svc, users := newTestAuthService(t, nil, nil)
	ctx := context.Background()

	res, err := svc.SignUp(ctx, &command.SignUpCommand{Email: "A@Example.com", Name: "Ann", Password: "secret"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.UserId)

	stored, err := users.FindById(ctx, res.UserId)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "a@example.com", stored.Email)
	assert.NotEqual(t, "secret", stored.Password)
	assert.NoError(t, stored.CheckPassword("secret"))
}

func TestSignUpRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.SignUp(ctx, &command.SignUpCommand{Email: "a@example.com", Name: "Ann", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, &command.SignUpCommand{Email: "a@example.com", Name: "Other", Password: "secret"})
	assert.ErrorIs(t, err, domainerrors.ErrEmailTaken)
	assert.Equal(t, domainerrors.KindConflict, domainerrors.KindOf(err))
}

func TestSignUpValidation(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)

	_, err := svc.SignUp(context.Background(), &command.SignUpCommand{Email: "not-an-email", Name: "", Password: "123"})
	require.Error(t, err)
	classified, ok := domainerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.KindValidation, classified.Kind)

	var fields []string
	for _, f := range classified.Data {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "name", "password"}, fields)
}

func TestLoginUniformFailure(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, &command.SignUpCommand{Email: "a@example.com", Name: "Ann", Password: "secret"})
	require.NoError(t, err)

	_, unknownErr := svc.Login(ctx, &command.LoginCommand{Email: "nobody@example.com", Password: "secret"})
	_, wrongErr := svc.Login(ctx, &command.LoginCommand{Email: "a@example.com", Password: "wrong-password"})

	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, unknownErr, wrongErr)
	assert.Equal(t, domainerrors.KindUnauthorized, domainerrors.KindOf(unknownErr))
	assert.Equal(t, "Wrong login or password.", unknownErr.Error())
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	tokens := &mapTokens{enabled: true}
	svc, _ := newTestAuthService(t, tokens, nil)
	ctx := context.Background()
	signed, err := svc.SignUp(ctx, &command.SignUpCommand{Email: "a@example.com", Name: "Ann", Password: "secret"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, &command.LoginCommand{Email: "A@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, signed.UserId, res.UserId)
	assert.Equal(t, signed.UserId, tokens.tokens[res.Token])

	userId, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, signed.UserId, userId)
}

func TestAuthenticateRequiresRegisteredToken(t *testing.T) {
	tokens := &mapTokens{enabled: true}
	svc, _ := newTestAuthService(t, tokens, nil)
	ctx := context.Background()
	_, err := svc.SignUp(ctx, &command.SignUpCommand{Email: "a@example.com", Name: "Ann", Password: "secret"})
	require.NoError(t, err)
	res, err := svc.Login(ctx, &command.LoginCommand{Email: "a@example.com", Password: "secret"})
	require.NoError(t, err)

	delete(tokens.tokens, res.Token)
	_, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)

	tokens.err = errBoom
	userId, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err, "an unreachable registry falls back to the signature")
	assert.Equal(t, res.UserId, userId)
}

func TestAuthenticateRejectsGarbage(t *testing.T) {
	svc, _ := newTestAuthService(t, nil, nil)

	for _, token := range []string{"", "not.a.jwt"} {
		_, err := svc.Authenticate(context.Background(), token)
		assert.ErrorIs(t, err, domainerrors.ErrNotAuthenticated)
	}
}

func TestLoginThrottledPerEmail(t *testing.T) {
	limiter := infrastructure.NewRateLimiter(time.Minute, 2)
	t.Cleanup(limiter.Stop)
	svc, _ := newTestAuthService(t, nil, limiter)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, &command.LoginCommand{Email: "a@example.com", Password: "nope1"})
		assert.ErrorIs(t, err, domainerrors.ErrWrongCredentials)
	}
	_, err := svc.Login(ctx, &command.LoginCommand{Email: "A@example.com", Password: "nope1"})
	assert.ErrorIs(t, err, domainerrors.ErrTooManyAttempts)
	assert.Equal(t, domainerrors.KindRateLimited, domainerrors.KindOf(err))

	_, err = svc.Login(ctx, &command.LoginCommand{Email: "b@example.com", Password: "nope1"})
	assert.ErrorIs(t, err, domainerrors.ErrWrongCredentials)
}
