package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"github.com/google/uuid"
)

type storedPost struct {
	post *entities.Post
	seq  uint64
}

type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]storedPost
	seq   uint64
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]storedPost)}
}

var _ repositories.PostRepository = (*PostRepository)(nil)

func (r *PostRepository) Create(_ context.Context, post *entities.ValidatedPost) (*entities.Post, error) {
	p := post.GetPost().Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Id == "" {
		p.Id = uuid.NewString()
	}
	r.seq++
	r.posts[p.Id] = storedPost{post: p, seq: r.seq}
	return p.Clone(), nil
}

func (r *PostRepository) FindById(_ context.Context, id string) (*entities.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	return stored.post.Clone(), nil
}

// List orders by CreatedAt descending; posts created within the same clock
// tick fall back to insertion order.
func (r *PostRepository) List(_ context.Context, skip, limit int) ([]*entities.Post, error) {
	r.mu.RLock()
	all := make([]storedPost, 0, len(r.posts))
	for _, p := range r.posts {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].post.CreatedAt.Equal(all[j].post.CreatedAt) {
			return all[i].post.CreatedAt.After(all[j].post.CreatedAt)
		}
		return all[i].seq > all[j].seq
	})

	if skip < 0 {
		skip = 0
	}
	if skip >= len(all) {
		return []*entities.Post{}, nil
	}
	end := len(all)
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}

	out := make([]*entities.Post, 0, end-skip)
	for _, p := range all[skip:end] {
		out = append(out, p.post.Clone())
	}
	return out, nil
}

func (r *PostRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.posts)), nil
}

func (r *PostRepository) Update(_ context.Context, post *entities.ValidatedPost) (*entities.Post, error) {
	p := post.GetPost().Clone()

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.posts[p.Id]
	if !ok {
		return nil, nil
	}
	p.Creator = stored.post.Creator
	p.CreatedAt = stored.post.CreatedAt
	r.posts[p.Id] = storedPost{post: p, seq: stored.seq}
	return p.Clone(), nil
}

func (r *PostRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.posts, id)
	return nil
}
