package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"skilloria/config"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret", SessionTTLHours: 1}
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestJWTRoundTrip(t *testing.T) {
	useTestConfig(t)

	token, err := GenerateJWT(7, "alice", true, time.Hour)
	require.NoError(t, err)

	userID, staff, err := ParseJWT(token)
	require.NoError(t, err)
	assert.EqualValues(t, 7, userID)
	assert.True(t, staff)
}

func TestParseJWTRejects(t *testing.T) {
	useTestConfig(t)

	expired, err := GenerateJWT(7, "alice", false, -time.Minute)
	require.NoError(t, err)
	_, _, err = ParseJWT(expired)
	assert.Error(t, err)

	valid, err := GenerateJWT(7, "alice", false, time.Hour)
	require.NoError(t, err)
	config.AppConfig.JWTKey = "rotated"
	_, _, err = ParseJWT(valid)
	assert.Error(t, err)

	_, _, err = ParseJWT("garbage")
	assert.Error(t, err)
}

func TestRequireLoginRedirects(t *testing.T) {
	useTestConfig(t)

	app := fiber.New()
	app.Use(LoadSession)
	app.Get("/dashboard", RequireLogin, func(c *fiber.Ctx) error {
		id, _ := CurrentUserID(c)
		return c.JSON(fiber.Map{"id": id})
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/dashboard?tab=1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login?next=%2Fdashboard%3Ftab%3D1", resp.Header.Get("Location"))

	token, err := GenerateJWT(3, "bob", false, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(fiber.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestHomeFor(t *testing.T) {
	assert.Equal(t, "/admin/", HomeFor(true))
	assert.Equal(t, "/dashboard", HomeFor(false))
}
