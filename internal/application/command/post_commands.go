package command

import "github.com/Arthur-Ayvazyan/rest-api/internal/application/common"

// CreatePostCommand carries an image reference that has already been stored.
type CreatePostCommand struct {
	CreatorId string
	Title     string `json:"title"`
	Content   string `json:"content"`
	ImageUrl  string `json:"imageUrl"`
}

type CreatePostCommandResult struct {
	Message string                `json:"message"`
	Post    *common.PostResult    `json:"post"`
	Creator *common.CreatorResult `json:"creator"`
}

type UpdatePostCommand struct {
	RequesterId string
	PostId      string
	Title       string `json:"title"`
	Content     string `json:"content"`
	ImageUrl    string `json:"image"`
}

type UpdatePostCommandResult struct {
	Message string             `json:"message"`
	Post    *common.PostResult `json:"post"`
}

type DeletePostCommand struct {
	RequesterId string
	PostId      string
}

type DeletePostCommandResult struct {
	Message string `json:"message"`
}

type UpdateStatusCommand struct {
	UserId string
	Status string `json:"status"`
}

type UpdateStatusCommandResult struct {
	Message   string `json:"message"`
	NewStatus string `json:"newStatus"`
}
