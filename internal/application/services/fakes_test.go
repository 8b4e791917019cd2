package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure"
)

type emittedEvent struct {
	name    string
	payload []byte
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emittedEvent
	err    error
}

func (e *recordingEmitter) Emit(_ context.Context, event string, payload any) error {
	if e.err != nil {
		return e.err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, emittedEvent{name: event, payload: data})
	return nil
}

func (e *recordingEmitter) decoded(i int) map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	var m map[string]any
	_ = json.Unmarshal(e.events[i].payload, &m)
	return m
}

func (e *recordingEmitter) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events)
}

type recordingImages struct {
	released []string
	err      error
}

func (r *recordingImages) Release(_ context.Context, ref string) error {
	r.released = append(r.released, ref)
	return r.err
}

type mapCache struct {
	posts   map[string]*entities.Post
	deletes int
}

func newMapCache() *mapCache {
	return &mapCache{posts: make(map[string]*entities.Post)}
}

func (c *mapCache) GetPost(_ context.Context, id string) (*entities.Post, error) {
	return c.posts[id].Clone(), nil
}

func (c *mapCache) SetPost(_ context.Context, post *entities.Post, _ time.Duration) error {
	c.posts[post.Id] = post.Clone()
	return nil
}

func (c *mapCache) DeletePost(_ context.Context, id string) error {
	c.deletes++
	delete(c.posts, id)
	return nil
}

type mapTokens struct {
	enabled bool
	tokens  map[string]string
	err     error
}

func (m *mapTokens) Enabled() bool { return m.enabled }

func (m *mapTokens) SetToken(_ context.Context, token, userId string, _ time.Duration) error {
	if m.tokens == nil {
		m.tokens = make(map[string]string)
	}
	m.tokens[token] = userId
	return nil
}

func (m *mapTokens) GetToken(_ context.Context, token string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.tokens[token], nil
}

var errBoom = errors.New("boom")

func newJWT() *infrastructure.JWTService {
	return infrastructure.NewJWTService("test-secret", time.Hour)
}
