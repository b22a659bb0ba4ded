package userValidator

import (
	"strconv"

	"skilloria/middleware"
	"skilloria/utils"
	"skilloria/validators"

	"github.com/gofiber/fiber/v2"
)

// ProfileForm is the profile edit form.
type ProfileForm struct {
	FirstName string `form:"first_name" validate:"required,max=150"`
	LastName  string `form:"last_name" validate:"required,max=150"`
	Email     string `form:"email" validate:"required,email,max=254"`
	Bio       string `form:"bio" validate:"max=2000"`
}

// ProfileParam checks the :id param (a student id).
func ProfileParam() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil || id == 0 {
			return middleware.RedirectWithFlash(c, middleware.FlashError, "Profile not found.", "/dashboard")
		}
		c.Locals("studentId", uint(id))
		return c.Next()
	}
}

// UpdateProfile validates the profile form. On failure the form is rendered
// again by the controller, which owns the ownership check.
func UpdateProfile() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ProfileForm)
		errors := map[string]string{}
		if err := c.BodyParser(reqData); err != nil {
			errors["form"] = "Invalid form submission."
		} else {
			validators.Trim(&reqData.FirstName, &reqData.LastName, &reqData.Email, &reqData.Bio)
			for k, v := range validators.Struct(reqData) {
				errors[k] = v
			}
		}

		if file, err := c.FormFile("profile_pic"); err == nil {
			if err := utils.CheckImageUpload(file); err != nil {
				errors["profile_pic"] = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
			} else {
				c.Locals("profilePic", file)
			}
		}

		c.Locals("validatedProfile", reqData)
		if len(errors) > 0 {
			c.Locals("profileErrors", errors)
		}
		return c.Next()
	}
}
