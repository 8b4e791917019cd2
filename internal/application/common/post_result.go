package common

import "time"

type PostResult struct {
	Id        string         `json:"_id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	ImageUrl  string         `json:"imageUrl"`
	Creator   *CreatorResult `json:"creator"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// PostEvent is the payload broadcast on the "posts" channel.
type PostEvent struct {
	Action string      `json:"action"`
	Post   *PostResult `json:"post,omitempty"`
	PostId string      `json:"postId,omitempty"`
}

const (
	PostsChannel = "posts"

	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)
