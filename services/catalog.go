package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"skilloria/models"

	"gorm.io/gorm"
)

// CourseFilter narrows the catalog. Every field is a case-insensitive
// substring match; empty fields are ignored.
type CourseFilter struct {
	Title    string `query:"title"`
	Category string `query:"category"`
	Level    string `query:"level"`
	Tags     string `query:"tags"`
}

// IsEmpty reports whether no filter field is set.
func (f CourseFilter) IsEmpty() bool {
	return f.Title == "" && f.Category == "" && f.Level == "" && f.Tags == ""
}

// CoursePage is one page of the filtered catalog.
type CoursePage struct {
	Courses    []models.Course
	Number     int
	NumPages   int
	Total      int64
	PageSize   int
	HasPrev    bool
	HasNext    bool
	PrevNumber int
	NextNumber int
}

// ListCourses filters and paginates the catalog. page is the raw query value:
// anything that is not a positive number means page 1, and numbers past the
// end clamp to the last page.
func ListCourses(db *gorm.DB, filter CourseFilter, page string, pageSize int) (*CoursePage, error) {
	if pageSize < 1 {
		pageSize = 6
	}
	query := applyCourseFilter(db.Model(&models.Course{}), filter).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count courses: %w", err)
	}

	numPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	if numPages < 1 {
		numPages = 1
	}
	number, err := strconv.Atoi(strings.TrimSpace(page))
	if err != nil || number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	var courses []models.Course
	if err := query.Order("id asc").
		Offset((number - 1) * pageSize).
		Limit(pageSize).
		Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}

	return &CoursePage{
		Courses:    courses,
		Number:     number,
		NumPages:   numPages,
		Total:      total,
		PageSize:   pageSize,
		HasPrev:    number > 1,
		HasNext:    number < numPages,
		PrevNumber: number - 1,
		NextNumber: number + 1,
	}, nil
}

func applyCourseFilter(query *gorm.DB, f CourseFilter) *gorm.DB {
	if term := strings.TrimSpace(f.Title); term != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(term))
	}
	if term := strings.TrimSpace(f.Category); term != "" {
		query = query.Where("LOWER(category) LIKE ? ESCAPE '!'", containsPattern(term))
	}
	if term := strings.TrimSpace(f.Level); term != "" {
		query = query.Where("LOWER(level) LIKE ? ESCAPE '!'", containsPattern(term))
	}
	if term := strings.TrimSpace(f.Tags); term != "" {
		if strings.Contains(term, models.TagSeparator) {
			return query.Where("1 = 0")
		}
		query = query.Where("tag_text LIKE ? ESCAPE '!'", containsPattern(term))
	}
	return query
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern turns user input into a lowercased LIKE pattern that
// matches it literally anywhere in the column.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

// GetCourse returns ErrNotFound for a missing course.
func GetCourse(db *gorm.DB, courseID uint) (*models.Course, error) {
	var course models.Course
	err := db.First(&course, courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("course: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// AllCourses lists the whole catalog in creation order.
func AllCourses(db *gorm.DB) ([]models.Course, error) {
	var courses []models.Course
	err := db.Order("id asc").Find(&courses).Error
	return courses, err
}

// OrderedLessons returns a course's lessons in display order. Equal order
// values fall back to creation order.
func OrderedLessons(db *gorm.DB, courseID uint) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := db.Where("course_id = ?", courseID).Order("sort_order asc, id asc").Find(&lessons).Error
	return lessons, err
}

// LessonPosition is a lesson with its neighbours in display order.
type LessonPosition struct {
	Lesson models.Lesson
	Index  int
	Prev   *models.Lesson
	Next   *models.Lesson
}

// Locate finds lessonID in an ordered lesson list. ok is false when the
// lesson is not in the list.
func Locate(lessons []models.Lesson, lessonID uint) (pos LessonPosition, ok bool) {
	for i := range lessons {
		if lessons[i].ID != lessonID {
			continue
		}
		pos = LessonPosition{Lesson: lessons[i], Index: i}
		if i > 0 {
			pos.Prev = &lessons[i-1]
		}
		if i < len(lessons)-1 {
			pos.Next = &lessons[i+1]
		}
		return pos, true
	}
	return LessonPosition{}, false
}

// EnrolledCourseIDs returns the set of course ids the student is enrolled in.
func EnrolledCourseIDs(db *gorm.DB, studentID uint) (map[uint]bool, error) {
	var ids []uint
	if err := db.Model(&models.Enrollment{}).Where("student_id = ?", studentID).Pluck("course_id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
