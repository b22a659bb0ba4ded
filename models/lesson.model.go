package models

import "gorm.io/gorm"

// Lesson types
const (
	LessonVideo    = "Video"
	LessonDocument = "Document"
)

type Lesson struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title" gorm:"size:200;not null"`
	LessonType string `json:"lesson_type" gorm:"size:10;default:'Video'"`
	VideoURL   string `json:"video_url"`
	File       string `json:"file"` // path relative to the media dir
	Order      uint   `json:"order" gorm:"column:sort_order;default:0"`
}

func (l Lesson) IsVideo() bool { return l.LessonType == LessonVideo }
