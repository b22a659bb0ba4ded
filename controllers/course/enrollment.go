package courseController

import (
	"errors"
	"fmt"
	"html/template"
	"net/url"

	"skilloria/config"
	"skilloria/controllers"
	"skilloria/database"
	"skilloria/middleware"
	"skilloria/models"
	"skilloria/services"
	"skilloria/utils"

	"github.com/gofiber/fiber/v2"
)

// EnrollmentsPage is the filtered, paginated catalog.
func EnrollmentsPage(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}
	filter := c.Locals("courseFilter").(services.CourseFilter)
	db := database.Database.Db

	page, err := services.ListCourses(db, filter, c.Locals("page").(string), config.AppConfig.PageSize)
	if err != nil {
		return err
	}
	enrolled, err := services.EnrolledCourseIDs(db, student.ID)
	if err != nil {
		return err
	}

	return middleware.Render(c, fiber.StatusOK, "enrollment", fiber.Map{
		"Title":       "Courses",
		"Student":     student,
		"Filter":      filter,
		"FilterQuery": filterQuery(filter),
		"Levels":      models.CourseLevels,
		"Page":        page,
		"EnrolledIDs": enrolled,
	})
}

// EnrollCourse enrolls the student; enrolling twice is reported, not an error.
func EnrollCourse(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}
	courseID := c.Locals("courseId").(uint)
	db := database.Database.Db

	enrollment, created, err := services.Enroll(db, student.ID, courseID)
	if errors.Is(err, services.ErrNotFound) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Course not found.", catalogPath)
	}
	if err != nil {
		return err
	}
	course := enrollment.Course

	if !created {
		return middleware.RedirectWithFlash(c, middleware.FlashInfo,
			fmt.Sprintf("You are already enrolled in '%s'.", course.Title), catalogPath)
	}
	utils.Log.Infow("student enrolled", "studentId", student.ID, "courseId", course.ID, "enrollmentId", enrollment.ID)
	return middleware.RedirectWithFlash(c, middleware.FlashSuccess,
		fmt.Sprintf("You have successfully enrolled in '%s'!", course.Title), catalogPath)
}

// UnenrollCourse removes the enrollment and its progress.
func UnenrollCourse(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}
	courseID := c.Locals("courseId").(uint)
	db := database.Database.Db

	course, removed, err := services.Unenroll(db, student.ID, courseID)
	if errors.Is(err, services.ErrNotFound) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Course not found.", catalogPath)
	}
	if err != nil {
		return err
	}
	if removed {
		utils.Log.Infow("student unenrolled", "studentId", student.ID, "courseId", course.ID)
		middleware.Flash(c, middleware.FlashSuccess, fmt.Sprintf("You have unenrolled from '%s'.", course.Title))
	}
	return c.Redirect(catalogPath, fiber.StatusFound)
}

// filterQuery keeps the active filter on pagination links.
func filterQuery(f services.CourseFilter) template.URL {
	if f.IsEmpty() {
		return ""
	}
	values := url.Values{}
	for k, v := range map[string]string{"title": f.Title, "category": f.Category, "level": f.Level, "tags": f.Tags} {
		if v != "" {
			values.Set(k, v)
		}
	}
	return template.URL("&" + values.Encode())
}
