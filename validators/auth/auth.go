package authValidator

import (
	"skilloria/middleware"
	"skilloria/utils"
	"skilloria/validators"

	"github.com/gofiber/fiber/v2"
)

// SignupForm is the signup page form.
type SignupForm struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Email    string `form:"email" validate:"required,email,max=254"`
	Password string `form:"password" validate:"required,min=4"`
	Bio      string `form:"bio" validate:"max=2000"`
}

// LoginForm is the login page form.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"next"`
}

// Signup validator middleware
func Signup() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SignupForm)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, "signup", map[string]string{"form": "Invalid form submission."}, nil)
		}
		validators.Trim(&reqData.Username, &reqData.Email, &reqData.Bio)

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = map[string]string{}
		}

		// Picture is optional
		if file, err := c.FormFile("profile_pic"); err == nil {
			if err := utils.CheckImageUpload(file); err != nil {
				errors["profile_pic"] = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
			} else {
				c.Locals("profilePic", file)
			}
		}

		if len(errors) > 0 {
			reqData.Password = ""
			return middleware.ValidationErrorResponse(c, "signup", errors, fiber.Map{"Form": reqData})
		}

		c.Locals("validatedSignup", reqData)
		return c.Next()
	}
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginForm)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, "login", map[string]string{"form": "Invalid form submission."}, nil)
		}
		validators.Trim(&reqData.Username)
		if reqData.Next == "" {
			reqData.Next = c.Query("next")
		}

		if errors := validators.Struct(reqData); errors != nil {
			reqData.Password = ""
			return middleware.ValidationErrorResponse(c, "login", errors, fiber.Map{"Form": reqData, "Next": reqData.Next})
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}
