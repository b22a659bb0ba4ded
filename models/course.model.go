package models

import (
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course levels
const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

// CourseLevels lists the allowed values of Course.Level in display order.
var CourseLevels = []string{LevelBeginner, LevelIntermediate, LevelAdvanced}

// ValidLevel reports whether level is one of CourseLevels.
func ValidLevel(level string) bool {
	for _, l := range CourseLevels {
		if l == level {
			return true
		}
	}
	return false
}

type Course struct {
	gorm.Model
	Title       string                      `json:"title" gorm:"size:200;not null"`
	Description string                      `json:"description" gorm:"type:text"`
	Category    string                      `json:"category" gorm:"size:100;index"`
	Level       string                      `json:"level" gorm:"size:20;default:'Beginner'"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	TagText     string                      `json:"-" gorm:"type:text"`
	Lessons     []Lesson                    `json:"lessons,omitempty" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// TagSeparator delimits tags in Course.TagText. It never occurs inside a tag.
const TagSeparator = "\n"

// BeforeSave keeps TagText, the searchable copy of Tags, in step with Tags.
func (c *Course) BeforeSave(tx *gorm.DB) error {
	c.TagText = SearchableTags(c.Tags)
	return nil
}

// SearchableTags lowercases tags and joins them with TagSeparator, also
// wrapping both ends, so a substring search without the separator can only
// match inside one tag.
func SearchableTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	clean := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(tag, TagSeparator, " ")))
		if tag != "" {
			clean = append(clean, tag)
		}
	}
	if len(clean) == 0 {
		return ""
	}
	return TagSeparator + strings.Join(clean, TagSeparator) + TagSeparator
}
