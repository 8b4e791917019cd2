package mongodb

import (
	"fmt"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/domain/entities"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type userDocument struct {
	Id        primitive.ObjectID   `bson:"_id,omitempty"`
	Email     string               `bson:"email"`
	Name      string               `bson:"name"`
	Password  string               `bson:"password"`
	Status    string               `bson:"status"`
	Posts     []primitive.ObjectID `bson:"posts"`
	CreatedAt time.Time            `bson:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt"`
}

type postDocument struct {
	Id        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	ImageUrl  string             `bson:"imageUrl"`
	Creator   primitive.ObjectID `bson:"creator"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func userFromEntity(u *entities.User) (userDocument, error) {
	doc := userDocument{
		Email:     entities.NormalizeEmail(u.Email),
		Name:      u.Name,
		Password:  u.Password,
		Status:    u.Status,
		Posts:     make([]primitive.ObjectID, 0, len(u.Posts)),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Id != "" {
		oid, err := primitive.ObjectIDFromHex(u.Id)
		if err != nil {
			return userDocument{}, fmt.Errorf("user id %q: %w", u.Id, err)
		}
		doc.Id = oid
	}
	for _, p := range u.Posts {
		oid, err := primitive.ObjectIDFromHex(p)
		if err != nil {
			return userDocument{}, fmt.Errorf("post id %q: %w", p, err)
		}
		doc.Posts = append(doc.Posts, oid)
	}
	return doc, nil
}

func (d userDocument) toEntity() *entities.User {
	posts := make([]string, 0, len(d.Posts))
	for _, p := range d.Posts {
		posts = append(posts, p.Hex())
	}
	return &entities.User{
		Id:        d.Id.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Email:     d.Email,
		Name:      d.Name,
		Password:  d.Password,
		Status:    d.Status,
		Posts:     posts,
	}
}

func postFromEntity(p *entities.Post) (postDocument, error) {
	creator, err := primitive.ObjectIDFromHex(p.Creator)
	if err != nil {
		return postDocument{}, fmt.Errorf("creator id %q: %w", p.Creator, err)
	}
	doc := postDocument{
		Title:     p.Title,
		Content:   p.Content,
		ImageUrl:  p.ImageUrl,
		Creator:   creator,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Id != "" {
		oid, err := primitive.ObjectIDFromHex(p.Id)
		if err != nil {
			return postDocument{}, fmt.Errorf("post id %q: %w", p.Id, err)
		}
		doc.Id = oid
	}
	return doc, nil
}

func (d postDocument) toEntity() *entities.Post {
	return &entities.Post{
		Id:        d.Id.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
		Title:     d.Title,
		Content:   d.Content,
		ImageUrl:  d.ImageUrl,
		Creator:   d.Creator.Hex(),
	}
}
