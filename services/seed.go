package services

import (
	"errors"
	"fmt"

	"skilloria/models"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogFile is the YAML layout accepted by SeedCatalog.
type CatalogFile struct {
	Courses []SeedCourse `yaml:"courses"`
}

type SeedCourse struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Category    string       `yaml:"category"`
	Level       string       `yaml:"level"`
	Tags        []string     `yaml:"tags"`
	Lessons     []SeedLesson `yaml:"lessons"`
}

type SeedLesson struct {
	Title    string `yaml:"title"`
	Type     string `yaml:"type"`
	VideoURL string `yaml:"video_url"`
	File     string `yaml:"file"`
	Order    uint   `yaml:"order"`
}

// ParseCatalog decodes and checks a catalog file.
func ParseCatalog(data []byte) (*CatalogFile, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	for i, c := range file.Courses {
		if c.Title == "" {
			return nil, fmt.Errorf("course %d: title is required", i+1)
		}
		if c.Level == "" {
			file.Courses[i].Level = models.LevelBeginner
		} else if !models.ValidLevel(c.Level) {
			return nil, fmt.Errorf("course %q: unknown level %q", c.Title, c.Level)
		}
		for j, l := range c.Lessons {
			switch l.Type {
			case "":
				file.Courses[i].Lessons[j].Type = models.LessonVideo
			case models.LessonVideo, models.LessonDocument:
			default:
				return nil, fmt.Errorf("lesson %q: unknown type %q", l.Title, l.Type)
			}
		}
	}
	return &file, nil
}

// SeedCatalog inserts courses and lessons that do not exist yet, matching
// courses by title and lessons by title within their course. Existing rows
// are left untouched so the seed can be re-run.
func SeedCatalog(db *gorm.DB, file *CatalogFile) (courses, lessons int, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, sc := range file.Courses {
			var course models.Course
			err := tx.Where("title = ?", sc.Title).First(&course).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				course = models.Course{
					Title:       sc.Title,
					Description: sc.Description,
					Category:    sc.Category,
					Level:       sc.Level,
					Tags:        datatypes.JSONSlice[string](sc.Tags),
				}
				if err := tx.Create(&course).Error; err != nil {
					return fmt.Errorf("create course %q: %w", sc.Title, err)
				}
				courses++
			} else if err != nil {
				return err
			}

			for _, sl := range sc.Lessons {
				var n int64
				if err := tx.Model(&models.Lesson{}).
					Where("course_id = ? AND title = ?", course.ID, sl.Title).
					Count(&n).Error; err != nil {
					return err
				}
				if n > 0 {
					continue
				}
				if err := tx.Create(&models.Lesson{
					CourseID:   course.ID,
					Title:      sl.Title,
					LessonType: sl.Type,
					VideoURL:   sl.VideoURL,
					File:       sl.File,
					Order:      sl.Order,
				}).Error; err != nil {
					return fmt.Errorf("create lesson %q: %w", sl.Title, err)
				}
				lessons++
			}
		}
		return nil
	})
	return courses, lessons, err
}
