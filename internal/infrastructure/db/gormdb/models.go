package gormdb

import (
	"time"

	"gorm.io/gorm"
)

type UserModel struct {
	Id        string `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt  `gorm:"index"`
	Email     string          `gorm:"uniqueIndex;not null"`
	Name      string          `gorm:"not null"`
	Password  string          `gorm:"not null"`
	Status    string          `gorm:"not null"`
	Posts     []UserPostModel `gorm:"foreignKey:UserId"`
}

func (UserModel) TableName() string {
	return "users"
}

type PostModel struct {
	Id        string    `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	Title     string         `gorm:"not null"`
	Content   string         `gorm:"not null"`
	ImageUrl  string         `gorm:"not null"`
	Creator   string         `gorm:"type:varchar(36);index;not null"`
}

func (PostModel) TableName() string {
	return "posts"
}

// UserPostModel backs the ordered list of post ids on a user.
type UserPostModel struct {
	UserId    string `gorm:"type:varchar(36);primaryKey"`
	PostId    string `gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time
}

func (UserPostModel) TableName() string {
	return "user_posts"
}
