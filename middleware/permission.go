package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// HomeFor is where a logged-in user lands: staff on the admin surface,
// students on their dashboard.
func HomeFor(isStaff bool) string {
	if isStaff {
		return "/admin/"
	}
	return "/dashboard"
}

// RedirectIfAuthenticated keeps logged-in users away from the login and
// signup forms.
func RedirectIfAuthenticated(c *fiber.Ctx) error {
	if _, ok := CurrentUserID(c); ok {
		staff, _ := c.Locals("isStaff").(bool)
		return c.Redirect(HomeFor(staff), fiber.StatusFound)
	}
	return c.Next()
}
