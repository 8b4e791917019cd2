package entities

import (
	"strings"
	"time"

	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
)

const (
	MinTitleLength   = 5
	MinContentLength = 5
)

type Post struct {
	Id        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Title     string
	Content   string
	ImageUrl  string
	Creator   string
}

func NewPost(creator, title, content, imageUrl string) *Post {
	now := time.Now().UTC()
	return &Post{
		CreatedAt: now,
		UpdatedAt: now,
		Title:     strings.TrimSpace(title),
		Content:   strings.TrimSpace(content),
		ImageUrl:  imageUrl,
		Creator:   creator,
	}
}

func (p *Post) validate() error {
	var fields []domainerrors.FieldError
	if len(p.Title) < MinTitleLength {
		fields = append(fields, domainerrors.FieldError{Field: "title", Message: "Title must be at least 5 characters."})
	}
	if len(p.Content) < MinContentLength {
		fields = append(fields, domainerrors.FieldError{Field: "content", Message: "Content must be at least 5 characters."})
	}
	if len(fields) > 0 {
		return domainerrors.Validation(domainerrors.ErrValidationFailed.Message, fields...)
	}
	if p.Creator == "" {
		return domainerrors.Validation("Post must have a creator.")
	}
	return nil
}

// Edit replaces the mutable fields. The creator is never touched.
func (p *Post) Edit(title, content, imageUrl string) {
	p.Title = strings.TrimSpace(title)
	p.Content = strings.TrimSpace(content)
	p.ImageUrl = imageUrl
	p.UpdatedAt = time.Now().UTC()
}

func (p *Post) Clone() *Post {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}
