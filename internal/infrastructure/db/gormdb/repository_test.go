package gormdb

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := Open(context.Background(), DriverSqlite, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "dsn")
	assert.Error(t, err)

	_, err = Open(context.Background(), DriverSqlite, "")
	assert.Error(t, err)
}

func TestUserRepositoryCreateAndFind(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	vu, err := entities.NewValidatedUser(entities.NewUser("Ann@Example.com", "Ann", "secret"))
	require.NoError(t, err)

	created, err := repo.Create(ctx, vu)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.Id)
	assert.Equal(t, "ann@example.com", created.Email)
	assert.Equal(t, entities.DefaultStatus, created.Status)
	assert.Empty(t, created.Posts)

	byEmail, err := repo.FindByEmail(ctx, "ANN@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, created.Id, byEmail.Id)

	missing, err := repo.FindById(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	for i, wantErr := range []error{nil, repositories.ErrDuplicateEmail} {
		vu, err := entities.NewValidatedUser(entities.NewUser("dup@example.com", "Dup", "secret"))
		require.NoError(t, err)
		_, err = repo.Create(ctx, vu)
		if wantErr == nil {
			require.NoError(t, err, "attempt %d", i)
		} else {
			assert.ErrorIs(t, err, wantErr)
		}
	}
}

func TestUserRepositoryStatusAndPosts(t *testing.T) {
	repo := NewUserRepository(openTestDB(t))
	ctx := context.Background()

	vu, err := entities.NewValidatedUser(entities.NewUser("bob@example.com", "Bob", "secret"))
	require.NoError(t, err)
	u, err := repo.Create(ctx, vu)
	require.NoError(t, err)

	require.NoError(t, repo.UpdateStatus(ctx, u.Id, "busy"))
	require.NoError(t, repo.AddPost(ctx, u.Id, "p1"))
	require.NoError(t, repo.AddPost(ctx, u.Id, "p2"))
	require.NoError(t, repo.AddPost(ctx, u.Id, "p2"))
	require.NoError(t, repo.RemovePost(ctx, u.Id, "p1"))

	got, err := repo.FindById(ctx, u.Id)
	require.NoError(t, err)
	assert.Equal(t, "busy", got.Status)
	assert.Equal(t, []string{"p2"}, got.Posts)
}

func TestPostRepositoryLifecycle(t *testing.T) {
	repo := NewPostRepository(openTestDB(t))
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)

	var ids []string
	for i, title := range []string{"oldest post", "middle post", "newest post"} {
		p := entities.NewPost("creator-1", title, "content here", "images/x.png")
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		vp, err := entities.NewValidatedPost(p)
		require.NoError(t, err)
		created, err := repo.Create(ctx, vp)
		require.NoError(t, err)
		ids = append(ids, created.Id)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	page, err := repo.List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "newest post", page[0].Title)
	assert.Equal(t, "middle post", page[1].Title)

	existing, err := repo.FindById(ctx, ids[0])
	require.NoError(t, err)
	existing.Edit("edited title", "edited content", "images/y.png")
	vp, err := entities.NewValidatedPost(existing)
	require.NoError(t, err)
	updated, err := repo.Update(ctx, vp)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "edited title", updated.Title)
	assert.Equal(t, "images/y.png", updated.ImageUrl)
	assert.Equal(t, "creator-1", updated.Creator)

	require.NoError(t, repo.Delete(ctx, ids[0]))
	gone, err := repo.FindById(ctx, ids[0])
	require.NoError(t, err)
	assert.Nil(t, gone)

	total, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
}

func TestPostRepositoryUpdateMissing(t *testing.T) {
	repo := NewPostRepository(openTestDB(t))

	p := entities.NewPost("creator-1", "ghost post", "ghost content", "images/g.png")
	p.Id = "missing"
	vp, err := entities.NewValidatedPost(p)
	require.NoError(t, err)

	updated, err := repo.Update(context.Background(), vp)
	require.NoError(t, err)
	assert.Nil(t, updated)
}
