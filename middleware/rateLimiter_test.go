package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"skilloria/utils"
	"skilloria/views"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedLoginApp(t *testing.T, max int) *fiber.App {
	t.Helper()
	useTestConfig(t)
	InitSessions(nil)

	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	engine.AddFuncMap(utils.TemplateFuncs(utils.GetFileURL))
	app := fiber.New(fiber.Config{Views: engine, ViewsLayout: "layouts/base"})
	app.Use(PersistFlashes)

	limit := FormRateLimiter(nil, max, time.Minute, "login")
	app.Get("/login", limit, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Post("/login", limit, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func postLogin(t *testing.T, app *fiber.App) *http.Response {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader("username=alice&password=x"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestFormRateLimiterRerendersForm(t *testing.T) {
	app := newLimitedLoginApp(t, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, fiber.StatusNoContent, postLogin(t, app).StatusCode)
	}

	resp := postLogin(t, app)
	require.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Too many attempts. Please try again in a few minutes.")
	assert.Contains(t, string(body), `action="/login"`)
	assert.Contains(t, string(body), `name="password"`)
}

func TestFormRateLimiterIgnoresGets(t *testing.T) {
	app := newLimitedLoginApp(t, 1)

	assert.Equal(t, fiber.StatusNoContent, postLogin(t, app).StatusCode)
	assert.Equal(t, fiber.StatusTooManyRequests, postLogin(t, app).StatusCode)

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/login", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
