package authController

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"skilloria/config"
	"skilloria/database"
	"skilloria/middleware"
	"skilloria/services"
	"skilloria/utils"
	authValidator "skilloria/validators/auth"

	"github.com/gofiber/fiber/v2"
)

const emailSendTimeout = 10 * time.Second

// Index renders the landing page.
func Index(c *fiber.Ctx) error {
	return middleware.Render(c, fiber.StatusOK, "index", fiber.Map{"Title": "Welcome"})
}

func SignupPage(c *fiber.Ctx) error {
	return middleware.Render(c, fiber.StatusOK, "signup", fiber.Map{"Form": &authValidator.SignupForm{}})
}

// Signup creates the inactive account and mails the verification link.
func Signup(c *fiber.Ctx) error {
	reqData := c.Locals("validatedSignup").(*authValidator.SignupForm)
	cfg := config.AppConfig
	db := database.Database.Db

	var picture string
	if file, ok := c.Locals("profilePic").(*multipart.FileHeader); ok {
		saved, err := utils.SaveUploadedFile(file, cfg.MediaDir, "profile_pics")
		if err != nil {
			return fmt.Errorf("save profile picture: %w", err)
		}
		picture = saved
	}

	result, err := services.Signup(db, services.SignupInput{
		Username:   reqData.Username,
		Email:      reqData.Email,
		Password:   reqData.Password,
		Bio:        reqData.Bio,
		ProfilePic: picture,
	}, services.SignupOptions{
		SaltRound: cfg.SaltRound,
		TokenTTL:  time.Duration(cfg.VerifyTokenTTLHours) * time.Hour,
		SiteURL:   siteURL(c),
	})
	if err != nil {
		removeUpload(cfg.MediaDir, picture)
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			reqData.Password = ""
			return middleware.ValidationErrorResponse(c, "signup", verr.Fields, fiber.Map{"Form": reqData})
		}
		return err
	}

	// First attempt inline; the scheduler retries failures.
	ctx, cancel := context.WithTimeout(c.UserContext(), emailSendTimeout)
	defer cancel()
	if err := services.DeliverEmail(ctx, db, utils.Mail, &result.Email); err != nil && !errors.Is(err, services.ErrEmailClaimed) {
		utils.Log.Warnw("verification email not sent, queued for retry",
			"userId", result.User.ID, "emailId", result.Email.ID, "error", err)
	}

	utils.Log.Infow("user signed up", "userId", result.User.ID, "username", result.User.Username)
	return middleware.RedirectWithFlash(c, middleware.FlashSuccess,
		"Account created! Please check your email to verify your account.", "/login")
}

// VerifyEmail activates an account from the mailed link.
func VerifyEmail(c *fiber.Ctx) error {
	user, err := services.VerifyEmail(database.Database.Db, c.Params("uid"), c.Params("token"), time.Now())
	if errors.Is(err, services.ErrInvalidToken) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "Invalid or expired verification link.", "/signup")
	}
	if err != nil {
		return err
	}
	utils.Log.Infow("email verified", "userId", user.ID)
	return middleware.RedirectWithFlash(c, middleware.FlashSuccess, "Email verified successfully! You can now login.", "/login")
}

func LoginPage(c *fiber.Ctx) error {
	return middleware.Render(c, fiber.StatusOK, "login", fiber.Map{
		"Form": &authValidator.LoginForm{},
		"Next": c.Query("next"),
	})
}

// Login checks credentials and issues the session cookie.
func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedLogin").(*authValidator.LoginForm)
	db := database.Database.Db

	user, err := services.Authenticate(db, reqData.Username, reqData.Password)
	if err != nil {
		reqData.Password = ""
		data := fiber.Map{"Form": reqData, "Next": reqData.Next}
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			middleware.Flash(c, middleware.FlashError, "Invalid username or password.")
			return middleware.Render(c, fiber.StatusOK, "login", data)
		case errors.Is(err, services.ErrInactive):
			middleware.Flash(c, middleware.FlashError, "Please verify your email before logging in.")
			return middleware.Render(c, fiber.StatusOK, "login", data)
		default:
			return err
		}
	}

	if err := services.RecordLogin(db, user, c.IP(), c.Get(fiber.HeaderUserAgent), time.Now()); err != nil {
		utils.Log.Errorw("record login failed", "userId", user.ID, "error", err)
	}
	if err := middleware.SetSession(c, user.ID, user.Username, user.IsStaff); err != nil {
		return fmt.Errorf("issue session: %w", err)
	}

	middleware.Flash(c, middleware.FlashSuccess, fmt.Sprintf("Welcome back, %s!", user.Username))
	if target := safeNext(reqData.Next); target != "" && !user.IsStaff {
		return c.Redirect(target, fiber.StatusFound)
	}
	return c.Redirect(middleware.HomeFor(user.IsStaff), fiber.StatusFound)
}

// Logout clears the session cookie.
func Logout(c *fiber.Ctx) error {
	middleware.ClearSession(c)
	return middleware.RedirectWithFlash(c, middleware.FlashSuccess, "Logged out successfully!", "/")
}

// safeNext only allows local absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

func siteURL(c *fiber.Ctx) string {
	if config.AppConfig.SiteURL != "" {
		return config.AppConfig.SiteURL
	}
	return c.BaseURL()
}

func removeUpload(mediaDir, rel string) {
	if rel == "" {
		return
	}
	if err := os.Remove(filepath.Join(mediaDir, filepath.FromSlash(rel))); err != nil {
		utils.Log.Warnw("remove orphan upload failed", "path", rel, "error", err)
	}
}
