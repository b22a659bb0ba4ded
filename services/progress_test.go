package services

import (
	"testing"
	"time"

	"skilloria/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentEnrollmentsLiveCounts(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "alice")
	intro, introLessons := createCourse(t, db, "Intro", 3)
	deep, _ := createCourse(t, db, "Deep dive", 4)

	for _, c := range []*models.Course{intro, deep} {
		_, _, err := Enroll(db, student.ID, c.ID)
		require.NoError(t, err)
	}
	for _, l := range introLessons {
		_, err := CompleteLesson(db, student.ID, intro.ID, l.ID)
		require.NoError(t, err)
	}

	progress, err := StudentEnrollments(db, student.ID)
	require.NoError(t, err)
	require.Len(t, progress, 2)

	byCourse := map[uint]EnrollmentProgress{}
	for _, p := range progress {
		byCourse[p.Enrollment.CourseID] = p
	}
	assert.Equal(t, 3, byCourse[intro.ID].TotalLessons)
	assert.Equal(t, 3, byCourse[intro.ID].CompletedLessons)
	assert.Equal(t, 100, byCourse[intro.ID].Percent)
	assert.True(t, byCourse[intro.ID].IsComplete())
	assert.Equal(t, "Intro", byCourse[intro.ID].Enrollment.Course.Title)

	assert.Equal(t, 4, byCourse[deep.ID].TotalLessons)
	assert.Equal(t, 0, byCourse[deep.ID].Percent)
	assert.False(t, byCourse[deep.ID].IsComplete())
}

func TestStudentEnrollmentsEmpty(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "alice")

	progress, err := StudentEnrollments(db, student.ID)
	require.NoError(t, err)
	assert.Empty(t, progress)
}

func TestBuildDashboard(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "alice")
	other := createStudent(t, db, "bob")
	intro, introLessons := createCourse(t, db, "Intro", 2)
	deep, deepLessons := createCourse(t, db, "Deep dive", 3)
	createCourse(t, db, "Unrelated", 1)

	for _, c := range []*models.Course{intro, deep} {
		_, _, err := Enroll(db, student.ID, c.ID)
		require.NoError(t, err)
	}
	_, _, err := Enroll(db, other.ID, deep.ID)
	require.NoError(t, err)

	for _, l := range introLessons {
		_, err := CompleteLesson(db, student.ID, intro.ID, l.ID)
		require.NoError(t, err)
	}
	_, err = CompleteLesson(db, student.ID, deep.ID, deepLessons[0].ID)
	require.NoError(t, err)
	_, err = CompleteLesson(db, other.ID, deep.ID, deepLessons[0].ID)
	require.NoError(t, err)

	// push one of alice's completions into an earlier week
	require.NoError(t, db.Model(&models.CompletedLesson{}).
		Where("lesson_id = ?", introLessons[0].ID).
		Update("completed_at", time.Now().AddDate(0, 0, -30)).Error)

	d, err := BuildDashboard(db, student, time.Now())
	require.NoError(t, err)

	assert.Len(t, d.Enrollments, 2)
	assert.Equal(t, 1, d.CompletedCourses)
	assert.Equal(t, 1, d.PendingCourses)
	assert.EqualValues(t, 2, d.CompletedThisWeek)
	assert.Len(t, d.AllCourses, 3)
	assert.Equal(t, map[uint]bool{intro.ID: true, deep.ID: true}, d.EnrolledIDs)
}
