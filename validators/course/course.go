package courseValidator

import (
	"strconv"

	"skilloria/middleware"
	"skilloria/services"

	"github.com/gofiber/fiber/v2"
)

const catalogPath = "/enrollments"

func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// CourseParam checks the :id route param and stores it as Locals "courseId".
func CourseParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c.Params("id"))
		if !ok {
			return middleware.RedirectWithFlash(c, middleware.FlashError, "Course not found.", catalogPath)
		}
		c.Locals("courseId", courseID)
		return c.Next()
	}
}

// LessonParams checks :id and :lessonId.
func LessonParams() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseID, ok := parseID(c.Params("id"))
		if !ok {
			return middleware.RedirectWithFlash(c, middleware.FlashError, "Course not found.", catalogPath)
		}
		lessonID, ok := parseID(c.Params("lessonId"))
		if !ok {
			return middleware.RedirectWithFlash(c, middleware.FlashError, "Lesson not found.", catalogPath)
		}
		c.Locals("courseId", courseID)
		c.Locals("lessonId", lessonID)
		return c.Next()
	}
}

// CourseList reads the catalog filter and the raw page number. Bad page
// values are resolved by the catalog itself.
func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := new(services.CourseFilter)
		if err := c.QueryParser(filter); err != nil {
			filter = new(services.CourseFilter)
		}
		c.Locals("courseFilter", *filter)
		c.Locals("page", c.Query("page"))
		return c.Next()
	}
}
