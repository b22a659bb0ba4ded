package userController

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"skilloria/config"
	"skilloria/controllers"
	"skilloria/database"
	"skilloria/middleware"
	"skilloria/models"
	"skilloria/services"
	"skilloria/utils"
	"skilloria/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

// Dashboard shows progress across the student's enrollments.
func Dashboard(c *fiber.Ctx) error {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return controllers.StudentLookupFailed(c, err)
	}

	dashboard, err := services.BuildDashboard(database.Database.Db, student, time.Now())
	if err != nil {
		return err
	}
	return middleware.Render(c, fiber.StatusOK, "dashboard", fiber.Map{
		"Title":     "Dashboard",
		"Dashboard": dashboard,
	})
}

// ownProfile loads the student and checks it owns the :id profile.
func ownProfile(c *fiber.Ctx) (*models.Student, error) {
	student, err := controllers.CurrentStudent(c)
	if err != nil {
		return nil, err
	}
	if student.ID != c.Locals("studentId").(uint) {
		return nil, services.ErrForbidden
	}
	return student, nil
}

func profileRejected(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrForbidden) {
		return middleware.RedirectWithFlash(c, middleware.FlashError, "You are not allowed to edit this profile.", "/dashboard")
	}
	return controllers.StudentLookupFailed(c, err)
}

func formFor(student *models.Student) *userValidator.ProfileForm {
	return &userValidator.ProfileForm{
		FirstName: student.User.FirstName,
		LastName:  student.User.LastName,
		Email:     student.User.Email,
		Bio:       student.Bio,
	}
}

// UserDetail renders the profile form.
func UserDetail(c *fiber.Ctx) error {
	student, err := ownProfile(c)
	if err != nil {
		return profileRejected(c, err)
	}
	return middleware.Render(c, fiber.StatusOK, "user_detail", fiber.Map{
		"Title":   "Profile",
		"Student": student,
		"Form":    formFor(student),
	})
}

// UpdateUserDetail saves the profile form.
func UpdateUserDetail(c *fiber.Ctx) error {
	student, err := ownProfile(c)
	if err != nil {
		return profileRejected(c, err)
	}
	reqData := c.Locals("validatedProfile").(*userValidator.ProfileForm)

	if fieldErrs, ok := c.Locals("profileErrors").(map[string]string); ok {
		return middleware.ValidationErrorResponse(c, "user_detail", fieldErrs, fiber.Map{
			"Title":   "Profile",
			"Student": student,
			"Form":    reqData,
		})
	}

	input := services.ProfileInput{
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Email:     reqData.Email,
		Bio:       reqData.Bio,
	}
	if file, ok := c.Locals("profilePic").(*multipart.FileHeader); ok {
		saved, err := utils.SaveUploadedFile(file, config.AppConfig.MediaDir, "profile_pics")
		if err != nil {
			return fmt.Errorf("save profile picture: %w", err)
		}
		input.ProfilePic = &saved
	}

	if err := services.UpdateProfile(database.Database.Db, student, input); err != nil {
		return err
	}
	return middleware.RedirectWithFlash(c, middleware.FlashSuccess, "Profile updated successfully!",
		fmt.Sprintf("/user/%d", student.ID))
}
