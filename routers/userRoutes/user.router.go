package userProfileRoutes

import (
	userProfileController "skilloria/controllers/userControllers"
	"skilloria/middleware"
	userProfileValidator "skilloria/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	app.Get("/dashboard", middleware.RequireLogin, userProfileController.Dashboard)

	userGroup := app.Group("/user", middleware.RequireLogin)
	userGroup.Get("/:id", userProfileValidator.ProfileParam(), userProfileController.UserDetail)
	userGroup.Post("/:id", userProfileValidator.ProfileParam(), userProfileValidator.UpdateProfile(), userProfileController.UpdateUserDetail)
}
