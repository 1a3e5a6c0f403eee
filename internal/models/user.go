package models

import (
	"time"

	"trixtech/internal/domain"

	"gorm.io/gorm"
)

type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Email          string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash   string         `gorm:"size:255;not null" json:"-"`
	FirstName      string         `gorm:"size:100;not null" json:"first_name"`
	LastName       string         `gorm:"size:100;not null" json:"last_name"`
	Phone          string         `gorm:"size:32" json:"phone"`
	Role           string         `gorm:"size:20;not null;index" json:"role"` // customer | admin
	ProfilePicture string         `gorm:"size:512" json:"profile_picture"`
	Bio            string         `gorm:"type:text" json:"bio"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) IsAdmin() bool { return u.Role == domain.RoleAdmin }

func (User) TableName() string {
	return "users"
}
