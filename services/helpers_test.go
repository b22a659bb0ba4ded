package services

import (
	"fmt"
	"testing"

	"skilloria/database"
	"skilloria/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open("sqlite", dsn, logger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.RunMigrations(db))
	return db
}

func createStudent(t *testing.T, db *gorm.DB, username string) *models.Student {
	t.Helper()
	user := models.User{Username: username, Email: username + "@example.com", Password: "x", IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	student := models.Student{UserID: user.ID}
	require.NoError(t, db.Omit("User").Create(&student).Error)
	student.User = user
	return &student
}

// createCourse adds a course whose lessons have order 0..lessons-1.
func createCourse(t *testing.T, db *gorm.DB, title string, lessons int) (*models.Course, []models.Lesson) {
	t.Helper()
	course := models.Course{
		Title:    title,
		Category: "Programming",
		Level:    models.LevelBeginner,
		Tags:     datatypes.JSONSlice[string]{"go", "backend"},
	}
	require.NoError(t, db.Create(&course).Error)

	out := make([]models.Lesson, 0, lessons)
	for i := 0; i < lessons; i++ {
		lesson := models.Lesson{
			CourseID:   course.ID,
			Title:      fmt.Sprintf("%s lesson %d", title, i+1),
			LessonType: models.LessonVideo,
			VideoURL:   "https://youtu.be/dQw4w9WgXcQ",
			Order:      uint(i),
		}
		require.NoError(t, db.Create(&lesson).Error)
		out = append(out, lesson)
	}
	return &course, out
}
