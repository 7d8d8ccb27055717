package models

import (
	"gorm.io/gorm"
)

const RoleUser = "User"

type User struct {
	gorm.Model
	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Verified bool   `gorm:"not null;default:false" json:"verified"`
	Role     string `gorm:"size:20;not null;default:User" json:"role"`
}

// RegisteredAt is the registration timestamp.
func (u *User) RegisteredAt() string {
	return u.CreatedAt.Format("2006-01-02 15:04")
}
