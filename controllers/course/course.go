package courseController

import (
	"errors"
	"fmt"

	"skilloria/controllers"
	"skilloria/database"
	"skilloria/middleware"
	"skilloria/models"
	"skilloria/services"
	"skilloria/utils"

	"github.com/gofiber/fiber/v2"
)

const catalogPath = "/enrollments"

// MyCourses lists the student's enrollments with live progress.
func MyCourses(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}

	enrollments, err := services.StudentEnrollments(database.Database.Db, student.ID)
	if err != nil {
		return err
	}
	return middleware.Render(c, fiber.StatusOK, "course", fiber.Map{
		"Title":       "My courses",
		"Student":     student,
		"Enrollments": enrollments,
	})
}

// CourseDetail shows an enrolled course with its lessons and completed set.
func CourseDetail(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}
	courseID := c.Locals("courseId").(uint)
	db := database.Database.Db

	course, err := services.GetCourse(db, courseID)
	if errors.Is(err, services.ErrNotFound) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Course not found.", catalogPath)
	}
	if err != nil {
		return err
	}

	enrollment, err := services.FindEnrollment(db, student.ID, course.ID)
	if errors.Is(err, services.ErrNotFound) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "You must enroll in this course first.", catalogPath)
	}
	if err != nil {
		return err
	}

	lessons, err := services.OrderedLessons(db, course.ID)
	if err != nil {
		return err
	}
	completed, err := services.CompletedLessonIDs(db, enrollment.ID)
	if err != nil {
		return err
	}

	return middleware.Render(c, fiber.StatusOK, "lesson_list", fiber.Map{
		"Title":      course.Title,
		"Course":     course,
		"Lessons":    lessons,
		"Enrollment": enrollment,
		"Completed":  completed,
		"Percent":    services.ComputeProgress(countIn(completed, lessons), len(lessons)),
	})
}

// LessonList is the course outline, open to any logged-in student.
func LessonList(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}
	courseID := c.Locals("courseId").(uint)
	db := database.Database.Db

	course, err := services.GetCourse(db, courseID)
	if errors.Is(err, services.ErrNotFound) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Course not found.", catalogPath)
	}
	if err != nil {
		return err
	}
	lessons, err := services.OrderedLessons(db, course.ID)
	if err != nil {
		return err
	}

	_, err = services.FindEnrollment(db, student.ID, course.ID)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		return err
	}

	return middleware.Render(c, fiber.StatusOK, "lesson_outline", fiber.Map{
		"Title":    course.Title,
		"Course":   course,
		"Lessons":  lessons,
		"Enrolled": err == nil,
	})
}

// LessonDetail shows one lesson of an enrolled course with prev/next links.
func LessonDetail(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}
	courseID := c.Locals("courseId").(uint)
	lessonID := c.Locals("lessonId").(uint)
	db := database.Database.Db

	course, err := services.GetCourse(db, courseID)
	if errors.Is(err, services.ErrNotFound) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Course not found.", catalogPath)
	}
	if err != nil {
		return err
	}

	enrollment, err := services.FindEnrollment(db, student.ID, course.ID)
	if errors.Is(err, services.ErrNotFound) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "You must enroll in this course first.", catalogPath)
	}
	if err != nil {
		return err
	}

	lessons, err := services.OrderedLessons(db, course.ID)
	if err != nil {
		return err
	}
	pos, ok := services.Locate(lessons, lessonID)
	if !ok {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Lesson not found.", coursePath(course.ID))
	}
	completed, err := services.CompletedLessonIDs(db, enrollment.ID)
	if err != nil {
		return err
	}

	return middleware.Render(c, fiber.StatusOK, "lesson_detail", fiber.Map{
		"Title":      pos.Lesson.Title,
		"Course":     course,
		"Lesson":     pos.Lesson,
		"Position":   pos.Index + 1,
		"Count":      len(lessons),
		"Prev":       pos.Prev,
		"Next":       pos.Next,
		"Completed":  completed,
		"IsComplete": completed[pos.Lesson.ID],
	})
}

// CompleteLesson marks a lesson done and recomputes progress.
func CompleteLesson(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}
	courseID := c.Locals("courseId").(uint)
	lessonID := c.Locals("lessonId").(uint)
	db := database.Database.Db

	result, err := services.CompleteLesson(db, student.ID, courseID, lessonID)
	if errors.Is(err, services.ErrNotFound) {
		if _, ferr := services.FindEnrollment(db, student.ID, courseID); ferr != nil {
			return middleware.RedirectWithFlash(c, middleware.FlashError, "You must enroll in this course first.", catalogPath)
		}
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Lesson not found.", coursePath(courseID))
	}
	if err != nil {
		return err
	}

	if result.AlreadyComplete {
		middleware.Flash(c, middleware.FlashInfo, fmt.Sprintf("Lesson '%s' is already completed.", result.Lesson.Title))
	} else {
		utils.Log.Infow("lesson completed", "studentId", student.ID, "lessonId", result.Lesson.ID,
			"enrollmentId", result.Enrollment.ID, "progress", result.Enrollment.Progress)
		middleware.Flash(c, middleware.FlashSuccess, fmt.Sprintf("Lesson '%s' marked as complete!", result.Lesson.Title))
	}
	return c.Redirect(coursePath(courseID), fiber.StatusFound)
}

func coursePath(courseID uint) string {
	return fmt.Sprintf("/course/%d", courseID)
}

func countIn(set map[uint]bool, lessons []models.Lesson) int {
	n := 0
	for _, l := range lessons {
		if set[l.ID] {
			n++
		}
	}
	return n
}
