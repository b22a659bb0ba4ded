package services

import (
	"fmt"
	"time"

	"skilloria/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// EnrollmentProgress is an enrollment with progress computed from the
// current catalog, as shown on the dashboard and the "my courses" page.
type EnrollmentProgress struct {
	Enrollment       models.Enrollment
	TotalLessons     int
	CompletedLessons int
	Percent          int
}

// IsComplete reports whether every lesson of the course is done.
func (p EnrollmentProgress) IsComplete() bool {
	return p.TotalLessons > 0 && p.Percent == 100
}

type countRow struct {
	RefID uint
	Total int
}

// StudentEnrollments lists a student's enrollments, newest first, with live
// lesson counts.
func StudentEnrollments(db *gorm.DB, studentID uint) ([]EnrollmentProgress, error) {
	var enrollments []models.Enrollment
	if err := db.Preload("Course").
		Where("student_id = ?", studentID).
		Order("enrolled_at desc, id desc").
		Find(&enrollments).Error; err != nil {
		return nil, fmt.Errorf("load enrollments: %w", err)
	}
	if len(enrollments) == 0 {
		return []EnrollmentProgress{}, nil
	}

	courseIDs := make([]uint, 0, len(enrollments))
	enrollmentIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
		enrollmentIDs = append(enrollmentIDs, e.ID)
	}

	var lessonCounts []countRow
	if err := db.Model(&models.Lesson{}).
		Select("course_id AS ref_id, COUNT(*) AS total").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&lessonCounts).Error; err != nil {
		return nil, fmt.Errorf("count lessons: %w", err)
	}
	var doneCounts []countRow
	if err := db.Model(&models.CompletedLesson{}).
		Select("completed_lessons.enrollment_id AS ref_id, COUNT(*) AS total").
		Joins("JOIN enrollments ON enrollments.id = completed_lessons.enrollment_id").
		Joins("JOIN lessons ON lessons.id = completed_lessons.lesson_id AND lessons.course_id = enrollments.course_id AND lessons.deleted_at IS NULL").
		Where("completed_lessons.enrollment_id IN ?", enrollmentIDs).
		Group("completed_lessons.enrollment_id").
		Scan(&doneCounts).Error; err != nil {
		return nil, fmt.Errorf("count completed lessons: %w", err)
	}

	totals := toMap(lessonCounts)
	done := toMap(doneCounts)

	out := make([]EnrollmentProgress, 0, len(enrollments))
	for _, e := range enrollments {
		p := EnrollmentProgress{
			Enrollment:       e,
			TotalLessons:     totals[e.CourseID],
			CompletedLessons: done[e.ID],
		}
		p.Percent = ComputeProgress(p.CompletedLessons, p.TotalLessons)
		out = append(out, p)
	}
	return out, nil
}

func toMap(rows []countRow) map[uint]int {
	m := make(map[uint]int, len(rows))
	for _, r := range rows {
		m[r.RefID] = r.Total
	}
	return m
}

// Dashboard is everything the student dashboard renders.
type Dashboard struct {
	Student           models.Student
	Enrollments       []EnrollmentProgress
	CompletedCourses  int
	PendingCourses    int
	CompletedThisWeek int64
	AllCourses        []models.Course
	EnrolledIDs       map[uint]bool
}

// BuildDashboard gathers the dashboard for student as of at.
func BuildDashboard(db *gorm.DB, student *models.Student, at time.Time) (*Dashboard, error) {
	enrollments, err := StudentEnrollments(db, student.ID)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Student:     *student,
		Enrollments: enrollments,
		EnrolledIDs: make(map[uint]bool, len(enrollments)),
	}
	for _, e := range enrollments {
		d.EnrolledIDs[e.Enrollment.CourseID] = true
		if e.IsComplete() {
			d.CompletedCourses++
		}
	}
	d.PendingCourses = len(enrollments) - d.CompletedCourses

	weekStart := now.With(at).BeginningOfWeek()
	if err := db.Model(&models.CompletedLesson{}).
		Joins("JOIN enrollments ON enrollments.id = completed_lessons.enrollment_id").
		Where("enrollments.student_id = ? AND completed_lessons.completed_at >= ?", student.ID, weekStart).
		Count(&d.CompletedThisWeek).Error; err != nil {
		return nil, fmt.Errorf("count weekly completions: %w", err)
	}

	if d.AllCourses, err = AllCourses(db); err != nil {
		return nil, fmt.Errorf("load courses: %w", err)
	}
	return d, nil
}
