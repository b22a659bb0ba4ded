package middleware

import (
	"fmt"
	"net/url"
	"time"

	"skilloria/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// SessionCookie holds the signed session token.
const SessionCookie = "skilloria_session"

// GenerateJWT generates the session token for a logged-in user
func GenerateJWT(userID uint, username string, isStaff bool, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"userId":   userID,
		"username": username,
		"staff":    isStaff,
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// ParseJWT validates a session token and returns the user id and staff flag.
func ParseJWT(tokenString string) (uint, bool, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return 0, false, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return 0, false, fmt.Errorf("invalid token payload")
	}
	// JWT numbers decode as float64
	userID, ok := claims["userId"].(float64)
	if !ok || userID <= 0 {
		return 0, false, fmt.Errorf("invalid token payload")
	}
	staff, _ := claims["staff"].(bool)
	return uint(userID), staff, nil
}

// SetSession issues the session cookie for a user.
func SetSession(c *fiber.Ctx, userID uint, username string, isStaff bool) error {
	ttl := time.Duration(config.AppConfig.SessionTTLHours) * time.Hour
	token, err := GenerateJWT(userID, username, isStaff, ttl)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   c.Protocol() == "https",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

// ClearSession expires the session cookie.
func ClearSession(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// LoadSession puts the user id of a valid session cookie into Locals. It
// never rejects a request.
func LoadSession(c *fiber.Ctx) error {
	if raw := c.Cookies(SessionCookie); raw != "" {
		if userID, staff, err := ParseJWT(raw); err == nil {
			c.Locals("userId", userID)
			c.Locals("isStaff", staff)
		}
	}
	return c.Next()
}

// RequireLogin redirects anonymous requests to the login page.
func RequireLogin(c *fiber.Ctx) error {
	if _, ok := CurrentUserID(c); !ok {
		return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}
	return c.Next()
}

// CurrentUserID returns the logged-in user id set by LoadSession.
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userId").(uint)
	return userID, ok && userID > 0
}
