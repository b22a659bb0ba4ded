package services

import (
	"testing"

	"skilloria/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
courses:
  - title: Intro
    category: Programming
    level: Beginner
    tags: [go, web]
    lessons:
      - {title: One, type: Video, video_url: "https://youtu.be/dQw4w9WgXcQ", order: 0}
      - {title: Two, type: Document, file: lessons/two.pdf, order: 1}
  - title: Sketching
    category: Art
    lessons:
      - {title: Lines}
`

func TestParseCatalog(t *testing.T) {
	file, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	require.Len(t, file.Courses, 2)
	assert.Equal(t, []string{"go", "web"}, file.Courses[0].Tags)
	assert.Equal(t, models.LevelBeginner, file.Courses[1].Level)
	assert.Equal(t, models.LessonVideo, file.Courses[1].Lessons[0].Type)

	_, err = ParseCatalog([]byte("courses:\n  - title: X\n    level: Expert\n"))
	assert.ErrorContains(t, err, "unknown level")

	_, err = ParseCatalog([]byte("courses:\n  - title: X\n    lessons:\n      - {title: L, type: Quiz}\n"))
	assert.ErrorContains(t, err, "unknown type")

	_, err = ParseCatalog([]byte("courses:\n  - category: Art\n"))
	assert.ErrorContains(t, err, "title is required")
}

func TestSeedCatalogIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	file, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	courses, lessons, err := SeedCatalog(db, file)
	require.NoError(t, err)
	assert.Equal(t, 2, courses)
	assert.Equal(t, 3, lessons)

	courses, lessons, err = SeedCatalog(db, file)
	require.NoError(t, err)
	assert.Zero(t, courses)
	assert.Zero(t, lessons)

	var intro models.Course
	require.NoError(t, db.Where("title = ?", "Intro").First(&intro).Error)
	assert.Equal(t, []string{"go", "web"}, []string(intro.Tags))

	ordered, err := OrderedLessons(db, intro.ID)
	require.NoError(t, err)
	require.Len(t, ordered, 2)
	assert.Equal(t, "One", ordered[0].Title)
	assert.Equal(t, models.LessonDocument, ordered[1].LessonType)
}
