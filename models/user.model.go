package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the login identity. Students hang off it one-to-one.
type User struct {
	gorm.Model
	Username  string     `gorm:"size:150;uniqueIndex;not null"`
	Email     string     `gorm:"size:254;index;not null"`
	Password  string     `gorm:"not null"` // bcrypt hash
	FirstName string     `gorm:"size:150;default:''"`
	LastName  string     `gorm:"size:150;default:''"`
	IsActive  bool       `gorm:"default:false"`
	IsStaff   bool       `gorm:"default:false"`
	LastLogin *time.Time `json:"last_login"`
}

// FullName falls back to the username when no name has been set.
func (u User) FullName() string {
	name := u.FirstName
	if u.LastName != "" {
		if name != "" {
			name += " "
		}
		name += u.LastName
	}
	if name == "" {
		return u.Username
	}
	return name
}
