package services

import (
	"errors"
	"fmt"

	"skilloria/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComputeProgress is floor(100*completed/total), 0 for a course without
// lessons and capped at 100.
func ComputeProgress(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return completed * 100 / total
}

// Enroll creates the (student, course) enrollment if it does not exist yet.
// created is false when the student was already enrolled. The returned
// enrollment carries its Course.
func Enroll(db *gorm.DB, studentID, courseID uint) (*models.Enrollment, bool, error) {
	course, err := GetCourse(db, courseID)
	if err != nil {
		return nil, false, err
	}

	enrollment := models.Enrollment{StudentID: studentID, CourseID: courseID}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&enrollment)
	if res.Error != nil {
		return nil, false, fmt.Errorf("create enrollment: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		enrollment.Course = *course
		return &enrollment, true, nil
	}

	existing, err := FindEnrollment(db, studentID, courseID)
	if err != nil {
		return nil, false, err
	}
	existing.Course = *course
	return existing, false, nil
}

// Unenroll deletes the enrollment and its completed-lesson set. removed is
// false when there was nothing to delete.
func Unenroll(db *gorm.DB, studentID, courseID uint) (*models.Course, bool, error) {
	course, err := GetCourse(db, courseID)
	if err != nil {
		return nil, false, err
	}

	removed := false
	err = db.Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment
		err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("enrollment_id = ?", enrollment.ID).Delete(&models.CompletedLesson{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&enrollment).Error; err != nil {
			return err
		}
		removed = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("unenroll: %w", err)
	}
	return course, removed, nil
}

// CompletionResult describes the outcome of CompleteLesson.
type CompletionResult struct {
	Enrollment      models.Enrollment
	Lesson          models.Lesson
	AlreadyComplete bool
}

// CompleteLesson adds lessonID to the student's completed set for courseID
// and recomputes progress. Completing an already completed lesson changes
// nothing. Membership is decided by the (enrollment, lesson) unique index so
// concurrent duplicates converge.
func CompleteLesson(db *gorm.DB, studentID, courseID, lessonID uint) (*CompletionResult, error) {
	result := &CompletionResult{}
	err := db.Transaction(func(tx *gorm.DB) error {
		// Row lock serializes completions of one enrollment so each recount
		// sees the others' inserts.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			First(&result.Enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("enrollment: %w", ErrNotFound)
		}
		if err != nil {
			return err
		}

		err = tx.Where("id = ? AND course_id = ?", lessonID, courseID).First(&result.Lesson).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("lesson: %w", ErrNotFound)
		}
		if err != nil {
			return err
		}

		mark := models.CompletedLesson{EnrollmentID: result.Enrollment.ID, LessonID: lessonID}
		res := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "enrollment_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&mark)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result.AlreadyComplete = true
			return nil
		}

		progress, err := recountProgress(tx, result.Enrollment.ID, courseID)
		if err != nil {
			return err
		}
		result.Enrollment.Progress = progress
		return tx.Model(&models.Enrollment{}).
			Where("id = ?", result.Enrollment.ID).
			Update("progress", progress).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("complete lesson: %w", err)
	}
	return result, nil
}

// FindEnrollment returns ErrNotFound when the student is not enrolled.
func FindEnrollment(db *gorm.DB, studentID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := db.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("enrollment: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// CompletedLessonIDs returns the completed-lesson set of an enrollment.
func CompletedLessonIDs(db *gorm.DB, enrollmentID uint) (map[uint]bool, error) {
	var ids []uint
	if err := db.Model(&models.CompletedLesson{}).
		Where("enrollment_id = ?", enrollmentID).
		Pluck("lesson_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func recountProgress(tx *gorm.DB, enrollmentID, courseID uint) (int, error) {
	total, err := countLessons(tx, courseID)
	if err != nil {
		return 0, err
	}
	var done int64
	if err := tx.Model(&models.CompletedLesson{}).
		Joins("JOIN lessons ON lessons.id = completed_lessons.lesson_id AND lessons.deleted_at IS NULL").
		Where("completed_lessons.enrollment_id = ? AND lessons.course_id = ?", enrollmentID, courseID).
		Count(&done).Error; err != nil {
		return 0, err
	}
	return ComputeProgress(int(done), int(total)), nil
}

func countLessons(db *gorm.DB, courseID uint) (int64, error) {
	var total int64
	err := db.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&total).Error
	return total, err
}
