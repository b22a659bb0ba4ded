package models

import "time"

// Enrollment ties a student to a course. Rows are hard-deleted on unenroll so
// the (student, course) unique index never collides with a tombstone.
type Enrollment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"uniqueIndex:idx_enrollment_student_course;not null"`
	CourseID   uint      `json:"course_id" gorm:"uniqueIndex:idx_enrollment_student_course;index;not null"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time `json:"updated_at"`
	Progress   int       `json:"progress" gorm:"default:0"` // 0-100
	Student    Student   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course     Course    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// CompletedLesson is one member of an enrollment's completed-lesson set.
type CompletedLesson struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	EnrollmentID uint       `json:"enrollment_id" gorm:"uniqueIndex:idx_completed_enrollment_lesson;not null"`
	LessonID     uint       `json:"lesson_id" gorm:"uniqueIndex:idx_completed_enrollment_lesson;index;not null"`
	CompletedAt  time.Time  `json:"completed_at" gorm:"autoCreateTime"`
	Enrollment   Enrollment `gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE"`
	Lesson       Lesson     `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}
