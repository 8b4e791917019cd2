package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/command"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/common"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/interfaces"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/mapper"
	"github.com/Arthur-Ayvazyan/rest-api/internal/application/query"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	domainservices "github.com/Arthur-Ayvazyan/rest-api/internal/domain/services"
)

const (
	feedModule = "internal/application/services/feed"

	DefaultPostsPerPage = 2
	DefaultPostCacheTTL = 10 * time.Minute
)

type FeedServiceConfig struct {
	PostsPerPage int
	PostCacheTTL time.Duration
}

// FeedService runs the post lifecycle. Writes that touch a post and its
// creator are two separate store calls and are not atomic; a broadcast
// failure never fails the mutation that triggered it.
type FeedService struct {
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
	emitter  interfaces.EventEmitter
	cache    interfaces.PostCache
	images   interfaces.ImageReleaser
	perPage  int
	cacheTTL time.Duration
	logger   *slog.Logger
}

var _ interfaces.FeedService = (*FeedService)(nil)

// NewFeedService wires the feed. cache and images may be nil.
func NewFeedService(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	emitter interfaces.EventEmitter,
	cache interfaces.PostCache,
	images interfaces.ImageReleaser,
	cfg FeedServiceConfig,
	logger *slog.Logger,
) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PostsPerPage <= 0 {
		cfg.PostsPerPage = DefaultPostsPerPage
	}
	if cfg.PostCacheTTL <= 0 {
		cfg.PostCacheTTL = DefaultPostCacheTTL
	}
	return &FeedService{
		userRepo: userRepo,
		postRepo: postRepo,
		emitter:  emitter,
		cache:    cache,
		images:   images,
		perPage:  cfg.PostsPerPage,
		cacheTTL: cfg.PostCacheTTL,
		logger:   logger,
	}
}

func (s *FeedService) ListPosts(ctx context.Context, page int) (*query.PostListQueryResult, error) {
	if page < 1 {
		page = 1
	}

	totalItems, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, domainerrors.Internal("count posts", err)
	}
	posts, err := s.postRepo.List(ctx, (page-1)*s.perPage, s.perPage)
	if err != nil {
		return nil, domainerrors.Internal("list posts", err)
	}

	creators := make(map[string]*entities.User)
	results := make([]*common.PostResult, 0, len(posts))
	for _, post := range posts {
		creator, seen := creators[post.Creator]
		if !seen {
			creator, err = s.userRepo.FindById(ctx, post.Creator)
			if err != nil {
				return nil, domainerrors.Internal("find creator", err)
			}
			creators[post.Creator] = creator
		}
		results = append(results, mapper.NewPostResultFromEntity(post, creator))
	}

	return &query.PostListQueryResult{
		Message:    "Fetched posts successfully",
		Posts:      results,
		TotalItems: totalItems,
	}, nil
}

func (s *FeedService) CreatePost(ctx context.Context, createCommand *command.CreatePostCommand) (*command.CreatePostCommandResult, error) {
	validatedPost, err := entities.NewValidatedPost(entities.NewPost(
		createCommand.CreatorId,
		createCommand.Title,
		createCommand.Content,
		createCommand.ImageUrl,
	))
	if err != nil {
		return nil, err
	}
	if createCommand.ImageUrl == "" {
		return nil, domainerrors.ErrNoImage
	}

	creator, err := s.userRepo.FindById(ctx, createCommand.CreatorId)
	if err != nil {
		return nil, domainerrors.Internal("find creator", err)
	}
	if creator == nil {
		return nil, domainerrors.ErrUserNotFound
	}

	createdPost, err := s.postRepo.Create(ctx, validatedPost)
	if err != nil {
		return nil, domainerrors.Internal("create post", err)
	}
	if err := s.userRepo.AddPost(ctx, creator.Id, createdPost.Id); err != nil {
		s.logger.Error("post saved but creator list not updated",
			"event", "feed_create_link_failed",
			"module", feedModule,
			"post_id", createdPost.Id,
			"user_id", creator.Id,
			"error", err.Error(),
		)
		return nil, domainerrors.Internal("link post to creator", err)
	}

	result := mapper.NewPostResultFromEntity(createdPost, creator)
	s.broadcast(ctx, common.PostEvent{Action: common.ActionCreate, Post: result})

	s.logger.Info("post created",
		"event", "feed_post_created",
		"module", feedModule,
		"post_id", createdPost.Id,
		"user_id", creator.Id,
	)
	return &command.CreatePostCommandResult{
		Message: "Post created successfully!",
		Post:    result,
		Creator: mapper.NewCreatorResultFromEntity(creator),
	}, nil
}

func (s *FeedService) GetPost(ctx context.Context, postId string) (*query.PostQueryResult, error) {
	post, err := s.cachedPost(ctx, postId)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domainerrors.ErrPostNotFound
	}

	creator, err := s.userRepo.FindById(ctx, post.Creator)
	if err != nil {
		return nil, domainerrors.Internal("find creator", err)
	}
	return &query.PostQueryResult{
		Message: "Post fetched.",
		Post:    mapper.NewPostResultFromEntity(post, creator),
	}, nil
}

// UpdatePost checks existence and ownership before looking at the new
// fields, so a non-creator always gets Forbidden.
func (s *FeedService) UpdatePost(ctx context.Context, updateCommand *command.UpdatePostCommand) (*command.UpdatePostCommandResult, error) {
	existing, err := s.ownedPost(ctx, updateCommand.PostId, updateCommand.RequesterId)
	if err != nil {
		return nil, err
	}

	oldImage := existing.ImageUrl
	existing.Edit(updateCommand.Title, updateCommand.Content, updateCommand.ImageUrl)
	validatedPost, err := entities.NewValidatedPost(existing)
	if err != nil {
		return nil, err
	}
	if updateCommand.ImageUrl == "" {
		return nil, domainerrors.ErrNoFilePicked
	}

	updatedPost, err := s.postRepo.Update(ctx, validatedPost)
	if err != nil {
		return nil, domainerrors.Internal("update post", err)
	}
	if updatedPost == nil {
		return nil, domainerrors.ErrPostNotFound
	}

	if oldImage != updatedPost.ImageUrl {
		s.releaseImage(ctx, oldImage)
	}
	s.invalidate(ctx, updatedPost.Id)

	creator, err := s.userRepo.FindById(ctx, updatedPost.Creator)
	if err != nil {
		s.logger.Warn("creator lookup failed after update",
			"event", "feed_update_creator_lookup_failed",
			"module", feedModule,
			"post_id", updatedPost.Id,
			"error", err.Error(),
		)
	}

	result := mapper.NewPostResultFromEntity(updatedPost, creator)
	s.broadcast(ctx, common.PostEvent{Action: common.ActionUpdate, Post: result})
	// A GetPost that loaded the old row before the update may have cached
	// it after the first invalidation.
	s.invalidate(ctx, updatedPost.Id)

	s.logger.Info("post updated",
		"event", "feed_post_updated",
		"module", feedModule,
		"post_id", updatedPost.Id,
	)
	return &command.UpdatePostCommandResult{
		Message: "Updated successfully.",
		Post:    result,
	}, nil
}

func (s *FeedService) DeletePost(ctx context.Context, deleteCommand *command.DeletePostCommand) (*command.DeletePostCommandResult, error) {
	existing, err := s.ownedPost(ctx, deleteCommand.PostId, deleteCommand.RequesterId)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.Delete(ctx, existing.Id); err != nil {
		return nil, domainerrors.Internal("delete post", err)
	}
	s.releaseImage(ctx, existing.ImageUrl)
	s.invalidate(ctx, existing.Id)

	if err := s.userRepo.RemovePost(ctx, existing.Creator, existing.Id); err != nil {
		s.logger.Error("post deleted but creator list not updated",
			"event", "feed_delete_unlink_failed",
			"module", feedModule,
			"post_id", existing.Id,
			"user_id", existing.Creator,
			"error", err.Error(),
		)
		return nil, domainerrors.Internal("unlink post from creator", err)
	}

	s.broadcast(ctx, common.PostEvent{Action: common.ActionDelete, PostId: existing.Id})
	s.invalidate(ctx, existing.Id)

	s.logger.Info("post deleted",
		"event", "feed_post_deleted",
		"module", feedModule,
		"post_id", existing.Id,
	)
	return &command.DeletePostCommandResult{Message: "Deleted post."}, nil
}

func (s *FeedService) GetStatus(ctx context.Context, userId string) (*query.StatusQueryResult, error) {
	user, err := s.userRepo.FindById(ctx, userId)
	if err != nil {
		return nil, domainerrors.Internal("find user", err)
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}
	return &query.StatusQueryResult{
		Message: "Status fetched successfully.",
		Status:  user.Status,
	}, nil
}

func (s *FeedService) UpdateStatus(ctx context.Context, statusCommand *command.UpdateStatusCommand) (*command.UpdateStatusCommandResult, error) {
	status := strings.TrimSpace(statusCommand.Status)
	if status == "" {
		return nil, domainerrors.ErrStatusEmpty
	}

	user, err := s.userRepo.FindById(ctx, statusCommand.UserId)
	if err != nil {
		return nil, domainerrors.Internal("find user", err)
	}
	if user == nil {
		return nil, domainerrors.ErrUserNotFound
	}

	if err := s.userRepo.UpdateStatus(ctx, user.Id, status); err != nil {
		return nil, domainerrors.Internal("update status", err)
	}
	return &command.UpdateStatusCommandResult{
		Message:   "Status updated successfully.",
		NewStatus: status,
	}, nil
}

// ownedPost loads a post for mutation and applies the ownership guard.
func (s *FeedService) ownedPost(ctx context.Context, postId, requesterId string) (*entities.Post, error) {
	post, err := s.postRepo.FindById(ctx, postId)
	if err != nil {
		return nil, domainerrors.Internal("find post", err)
	}
	if post == nil {
		return nil, domainerrors.ErrPostNotFound
	}
	if !domainservices.IsAuthorized(post.Creator, requesterId) {
		s.logger.Warn("post mutation denied",
			"event", "feed_mutation_forbidden",
			"module", feedModule,
			"post_id", post.Id,
			"requester_id", requesterId,
		)
		return nil, domainerrors.ErrNotAuthorized
	}
	return post, nil
}

func (s *FeedService) cachedPost(ctx context.Context, postId string) (*entities.Post, error) {
	if s.cache != nil {
		hit, err := s.cache.GetPost(ctx, postId)
		if err != nil {
			s.logger.Warn("post cache read failed",
				"event", "feed_cache_read_failed",
				"module", feedModule,
				"post_id", postId,
				"error", err.Error(),
			)
		} else if hit != nil {
			return hit, nil
		}
	}

	post, err := s.postRepo.FindById(ctx, postId)
	if err != nil {
		return nil, domainerrors.Internal("find post", err)
	}
	if post != nil && s.cache != nil {
		if err := s.cache.SetPost(ctx, post, s.cacheTTL); err != nil {
			s.logger.Warn("post cache write failed",
				"event", "feed_cache_write_failed",
				"module", feedModule,
				"post_id", postId,
				"error", err.Error(),
			)
		}
	}
	return post, nil
}

func (s *FeedService) invalidate(ctx context.Context, postId string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePost(ctx, postId); err != nil {
		s.logger.Warn("post cache invalidation failed",
			"event", "feed_cache_invalidate_failed",
			"module", feedModule,
			"post_id", postId,
			"error", err.Error(),
		)
	}
}

func (s *FeedService) releaseImage(ctx context.Context, ref string) {
	if s.images == nil || ref == "" {
		return
	}
	if err := s.images.Release(ctx, ref); err != nil {
		s.logger.Warn("image release failed",
			"event", "feed_image_release_failed",
			"module", feedModule,
			"image", ref,
			"error", err.Error(),
		)
	}
}

func (s *FeedService) broadcast(ctx context.Context, event common.PostEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.Emit(ctx, common.PostsChannel, event); err != nil {
		s.logger.Error("post event broadcast failed",
			"event", "feed_broadcast_failed",
			"module", feedModule,
			"action", event.Action,
			"error", err.Error(),
		)
	}
}
