package courseRoutes

import (
	controllers "skilloria/controllers/course"
	"skilloria/middleware"
	validators "skilloria/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up the student course, lesson and enrollment routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course", middleware.RequireLogin)

	courseGroup.Get("/", controllers.MyCourses)
	courseGroup.Get("/:id", validators.CourseParam(), controllers.CourseDetail)
	courseGroup.Get("/:id/lessons", validators.CourseParam(), controllers.LessonList)
	courseGroup.Get("/:id/lesson/:lessonId", validators.LessonParams(), controllers.LessonDetail)
	courseGroup.Post("/:id/lesson/:lessonId/complete", validators.LessonParams(), controllers.CompleteLesson)

	// Catalog and enrollment
	app.Get("/enrollments", middleware.RequireLogin, validators.CourseList(), controllers.EnrollmentsPage)
	app.Post("/enroll_course/:id", middleware.RequireLogin, validators.CourseParam(), controllers.EnrollCourse)
	app.Post("/courses/:id/unenroll", middleware.RequireLogin, validators.CourseParam(), controllers.UnenrollCourse)
}
