package mapper

import (
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/common"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
)

func NewCreatorResultFromEntity(user *entities.User) *common.CreatorResult {
	return &common.CreatorResult{
		Id:   user.Id,
		Name: user.Name,
	}
}

// NewPostResultFromEntity embeds creator when it is known, otherwise only
// the creator id.
func NewPostResultFromEntity(post *entities.Post, creator *entities.User) *common.PostResult {
	creatorResult := &common.CreatorResult{Id: post.Creator}
	if creator != nil && creator.Id == post.Creator {
		creatorResult = NewCreatorResultFromEntity(creator)
	}
	return &common.PostResult{
		Id:        post.Id,
		Title:     post.Title,
		Content:   post.Content,
		ImageUrl:  post.ImageUrl,
		Creator:   creatorResult,
		CreatedAt: post.CreatedAt,
		UpdatedAt: post.UpdatedAt,
	}
}
