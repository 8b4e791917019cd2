package entities

import (
	"net/mail"
	"strings"
	"time"

	domainerrors "github.com/Arthur-Ayvazyan/rest-api/internal/domain/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultStatus     = "I am new!"
	MinPasswordLength = 5
)

type User struct {
	Id        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Email     string
	Name      string
	Password  string
	Status    string
	Posts     []string
}

func NewUser(email, name, password string) *User {
	now := time.Now().UTC()
	return &User{
		CreatedAt: now,
		UpdatedAt: now,
		Email:     NormalizeEmail(email),
		Name:      strings.TrimSpace(name),
		Password:  password,
		Status:    DefaultStatus,
		Posts:     make([]string, 0),
	}
}

// NormalizeEmail lowercases and trims an address so lookups and the unique
// index agree.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) validate() error {
	var fields []domainerrors.FieldError
	if _, err := mail.ParseAddress(u.Email); err != nil || !strings.Contains(u.Email, "@") {
		fields = append(fields, domainerrors.FieldError{Field: "email", Message: "Please enter a valid email."})
	}
	if u.Name == "" {
		fields = append(fields, domainerrors.FieldError{Field: "name", Message: "Name must not be empty."})
	}
	if len(strings.TrimSpace(u.Password)) < MinPasswordLength {
		fields = append(fields, domainerrors.FieldError{Field: "password", Message: "Password must be at least 5 characters."})
	}
	if len(fields) > 0 {
		return domainerrors.Validation("Validation failed.", fields...)
	}
	return nil
}

func (u *User) HashPassword(cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

func (u *User) UpdateStatus(status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		return domainerrors.ErrStatusEmpty
	}
	u.Status = status
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (u *User) AddPost(postId string) {
	u.Posts = append(u.Posts, postId)
	u.UpdatedAt = time.Now().UTC()
}

func (u *User) RemovePost(postId string) {
	kept := u.Posts[:0]
	for _, id := range u.Posts {
		if id != postId {
			kept = append(kept, id)
		}
	}
	u.Posts = kept
	u.UpdatedAt = time.Now().UTC()
}

func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Posts = append([]string(nil), u.Posts...)
	return &cp
}
