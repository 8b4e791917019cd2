package interfaces

import (
	"context"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/command"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/query"
)

type FeedService interface {
	ListPosts(ctx context.Context, page int) (*query.PostListQueryResult, error)
	CreatePost(ctx context.Context, createCommand *command.CreatePostCommand) (*command.CreatePostCommandResult, error)
	GetPost(ctx context.Context, postId string) (*query.PostQueryResult, error)
	UpdatePost(ctx context.Context, updateCommand *command.UpdatePostCommand) (*command.UpdatePostCommandResult, error)
	DeletePost(ctx context.Context, deleteCommand *command.DeletePostCommand) (*command.DeletePostCommandResult, error)
	GetStatus(ctx context.Context, userId string) (*query.StatusQueryResult, error)
	UpdateStatus(ctx context.Context, statusCommand *command.UpdateStatusCommand) (*command.UpdateStatusCommandResult, error)
}
