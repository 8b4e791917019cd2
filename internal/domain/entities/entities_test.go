package entities

import (
	"testing"

	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewUserDefaults(t *testing.T) {
	user := NewUser("  Alice@Example.COM ", " Alice ", "secret")
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, DefaultStatus, user.Status)
	assert.Empty(t, user.Posts)
}

func TestValidatedUserReportsEveryField(t *testing.T) {
	_, err := NewValidatedUser(NewUser("not-an-email", "", "abc"))
	require.Error(t, err)

	classified, ok := domainerrors.As(err)
	require.True(t, ok)
	assert.Equal(t, domainerrors.KindValidation, classified.Kind)

	fields := make([]string, 0, len(classified.Data))
	for _, f := range classified.Data {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"email", "name", "password"}, fields)
}

func TestPasswordHashing(t *testing.T) {
	user := NewUser("a@b.com", "A", "secret")
	require.NoError(t, user.HashPassword(bcrypt.MinCost))
	assert.NotEqual(t, "secret", user.Password)
	assert.NoError(t, user.CheckPassword("secret"))
	assert.Error(t, user.CheckPassword("wrong"))
}

func TestValidatedPost(t *testing.T) {
	_, err := NewValidatedPost(NewPost("u1", "t", "c", ""))
	require.Error(t, err)
	assert.True(t, domainerrors.KindOf(err) == domainerrors.KindValidation)

	_, err = NewValidatedPost(NewPost("", "A title", "Some content", ""))
	require.Error(t, err)

	validated, err := NewValidatedPost(NewPost("u1", "  A title  ", "Some content", "images/a.png"))
	require.NoError(t, err)
	assert.Equal(t, "A title", validated.GetPost().Title)
}

func TestPostEditKeepsCreator(t *testing.T) {
	post := NewPost("u1", "A title", "Some content", "images/a.png")
	created := post.CreatedAt

	post.Edit(" New title ", "New content", "images/b.png")
	assert.Equal(t, "u1", post.Creator)
	assert.Equal(t, "New title", post.Title)
	assert.Equal(t, "images/b.png", post.ImageUrl)
	assert.Equal(t, created, post.CreatedAt)
	assert.False(t, post.UpdatedAt.Before(created))
}

func TestPostCloneIsIndependent(t *testing.T) {
	post := NewPost("u1", "A title", "Some content", "")
	clone := post.Clone()
	clone.Title = "Changed"
	assert.Equal(t, "A title", post.Title)

	var nilPost *Post
	assert.Nil(t, nilPost.Clone())
}
