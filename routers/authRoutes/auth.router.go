package authRoutes

import (
	"time"

	authControllers "skilloria/controllers/auth"
	"skilloria/middleware"
	authValidators "skilloria/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers the public pages. storage backs the rate limiter
// (nil means in memory).
func SetupAuthRoutes(app *fiber.App, storage fiber.Storage) {
	app.Get("/", authControllers.Index)

	signupLimit := middleware.FormRateLimiter(storage, 10, time.Hour, "signup")
	app.Get("/signup", middleware.RedirectIfAuthenticated, authControllers.SignupPage)
	app.Post("/signup", signupLimit, middleware.RedirectIfAuthenticated, authValidators.Signup(), authControllers.Signup)

	loginLimit := middleware.FormRateLimiter(storage, 20, 15*time.Minute, "login")
	app.Get("/login", middleware.RedirectIfAuthenticated, authControllers.LoginPage)
	app.Post("/login", loginLimit, middleware.RedirectIfAuthenticated, authValidators.Login(), authControllers.Login)

	app.Post("/logout", authControllers.Logout)
	app.Get("/verify/:uid/:token", authControllers.VerifyEmail)
}
