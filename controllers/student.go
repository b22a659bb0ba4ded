package controllers

import (
	"errors"

	"skilloria/database"
	"skilloria/middleware"
	"skilloria/models"
	"skilloria/services"

	"github.com/gofiber/fiber/v2"
)

// CurrentStudent resolves the student profile of the logged-in identity.
func CurrentStudent(c *fiber.Ctx) (*models.Student, error) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return nil, fiber.ErrUnauthorized
	}
	return services.GetStudentForIdentity(database.Database.Db, userID)
}

// StudentLookupFailed answers a failed CurrentStudent call.
func StudentLookupFailed(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, fiber.ErrUnauthorized):
		return middleware.RequireLogin(c)
	case errors.Is(err, services.ErrNotFound):
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Your student profile is missing. Please contact admin.", "/")
	default:
		return err
	}
}
