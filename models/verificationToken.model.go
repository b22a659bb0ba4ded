package models

import (
	"time"

	"gorm.io/gorm"
)

// VerificationToken proves control of the signup email. Only the SHA-256 hash
// of the token is stored.
type VerificationToken struct {
	gorm.Model
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:64;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at"`
}
