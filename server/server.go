package server

import (
	"errors"
	"net/http"
	"time"

	"skilloria/config"
	"skilloria/middleware"
	authRoutes "skilloria/routers/authRoutes"
	courseRoutes "skilloria/routers/courseRoutes"
	userProfileRoutes "skilloria/routers/userRoutes"
	"skilloria/utils"
	"skilloria/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
)

// New builds the application. storage backs sessions, CSRF tokens and rate
// limits; nil keeps them in memory.
func New(cfg *config.Config, storage fiber.Storage) *fiber.App {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	engine.AddFuncMap(utils.TemplateFuncs(utils.GetFileURL))

	app := fiber.New(fiber.Config{
		Views:        engine,
		ViewsLayout:  "layouts/base",
		ErrorHandler: errorHandler,
		BodyLimit:    10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	middleware.InitSessions(storage)
	app.Use(middleware.PersistFlashes)
	app.Use(middleware.LoadSession)
	if cfg.CSRFEnabled {
		app.Use(csrf.New(csrf.Config{
			KeyLookup:      "form:csrf_token",
			CookieName:     "skilloria_csrf",
			CookieSameSite: "Lax",
			CookieHTTPOnly: true,
			Expiration:     time.Duration(cfg.SessionTTLHours) * time.Hour,
			ContextKey:     "csrf",
			Storage:        storage,
		}))
	}

	app.Static("/media", cfg.MediaDir)

	authRoutes.SetupAuthRoutes(app, storage)
	userProfileRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)

	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Something went wrong. Please try again later."

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	if code == fiber.StatusForbidden {
		message = "Your request could not be verified. Please reload the page and try again."
	}
	if code >= fiber.StatusInternalServerError {
		utils.Log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}

	if rerr := middleware.Render(c, code, "error", fiber.Map{
		"Title":   http.StatusText(code),
		"Status":  code,
		"Message": message,
	}); rerr != nil {
		utils.Log.Errorw("render error page", "error", rerr)
		return c.Status(code).SendString(message)
	}
	return nil
}
