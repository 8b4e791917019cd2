package interfaces

import (
	"context"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/command"
)

type AuthService interface {
	SignUp(ctx context.Context, signUpCommand *command.SignUpCommand) (*command.SignUpCommandResult, error)
	Login(ctx context.Context, loginCommand *command.LoginCommand) (*command.LoginCommandResult, error)
	// Authenticate verifies a bearer token and returns the user id it carries.
	Authenticate(ctx context.Context, token string) (string, error)
}
