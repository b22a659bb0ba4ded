package models

import "gorm.io/gorm"

type Student struct {
	gorm.Model
	UserID     uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	User       User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	ProfilePic string `json:"profile_pic" gorm:"default:''"` // path relative to the media dir
	Bio        string `json:"bio" gorm:"type:text"`
}
