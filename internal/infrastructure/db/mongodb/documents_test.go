package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUserDocumentMapping(t *testing.T) {
	postId := primitive.NewObjectID().Hex()
	u := entities.NewUser("Ann@Example.com ", "Ann", "hash")
	u.Id = primitive.NewObjectID().Hex()
	u.Posts = []string{postId}

	doc, err := userFromEntity(u)
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", doc.Email)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var decoded userDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	back := decoded.toEntity()
	assert.Equal(t, u.Id, back.Id)
	assert.Equal(t, []string{postId}, back.Posts)
	assert.Equal(t, entities.DefaultStatus, back.Status)
}

func TestUserDocumentRejectsForeignIds(t *testing.T) {
	u := entities.NewUser("a@example.com", "A", "hash")
	u.Posts = []string{"not-an-object-id"}

	_, err := userFromEntity(u)
	assert.Error(t, err)
}

func TestPostDocumentUsesCamelCaseFields(t *testing.T) {
	creator := primitive.NewObjectID().Hex()
	p := entities.NewPost(creator, "a title", "a content", "images/a.png")
	p.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	doc, err := postFromEntity(p)
	require.NoError(t, err)
	assert.True(t, doc.Id.IsZero())

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))
	assert.Contains(t, m, "imageUrl")
	assert.Contains(t, m, "createdAt")
	assert.NotContains(t, m, "_id")

	assert.Equal(t, creator, doc.toEntity().Creator)
}

func TestPostDocumentRequiresObjectIdCreator(t *testing.T) {
	_, err := postFromEntity(entities.NewPost("user-1", "a title", "a content", "images/a.png"))
	assert.Error(t, err)
}

func TestConnectRequiresURI(t *testing.T) {
	_, err := Connect(context.Background(), "", "feed", nil)
	assert.Error(t, err)
}
