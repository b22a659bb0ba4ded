package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// Render renders a page with the shared layout data (flashes, CSRF token,
// session state) merged into data.
func Render(c *fiber.Ctx, statusCode int, view string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Flashes"] = TakeFlashes(c)
	data["CSRF"] = c.Locals("csrf")
	userID, loggedIn := CurrentUserID(c)
	data["LoggedIn"] = loggedIn
	data["UserID"] = userID
	return c.Status(statusCode).Render(view, data)
}

// RedirectWithFlash queues a flash message and redirects with 302.
func RedirectWithFlash(c *fiber.Ctx, level, message, location string) error {
	Flash(c, level, message)
	return c.Redirect(location, fiber.StatusFound)
}

// ValidationErrorResponse re-renders a form with inline field errors.
func ValidationErrorResponse(c *fiber.Ctx, view string, errors map[string]string, data fiber.Map) error {
	if data == nil {
		data = fiber.Map{}
	}
	data["Errors"] = errors
	Flash(c, FlashError, "Please correct the errors below.")
	return Render(c, fiber.StatusUnprocessableEntity, view, data)
}
