package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"skilloria/models"
	"skilloria/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("skilloria-dummy-password"), bcrypt.MinCost)

// GetStudentForIdentity loads the student profile (with its user) for a
// logged-in identity.
func GetStudentForIdentity(db *gorm.DB, userID uint) (*models.Student, error) {
	var student models.Student
	err := db.Preload("User").Where("user_id = ?", userID).First(&student).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("student: %w", ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// SignupInput is a validated signup form.
type SignupInput struct {
	Username   string
	Email      string
	Password   string
	Bio        string
	ProfilePic string
}

// SignupOptions carries the environment-dependent parts of signup.
type SignupOptions struct {
	SaltRound int
	TokenTTL  time.Duration
	SiteURL   string
	Now       time.Time
}

// SignupResult is what a successful signup produced.
type SignupResult struct {
	User    models.User
	Student models.Student
	Token   string
	Link    string
	Email   models.OutboundEmail
}

// Signup creates an inactive identity, its student profile, a verification
// token and the queued verification email in one transaction.
func Signup(db *gorm.DB, in SignupInput, opts SignupOptions) (*SignupResult, error) {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.SaltRound == 0 {
		opts.SaltRound = bcrypt.DefaultCost
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), opts.SaltRound)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	token, err := utils.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	result := &SignupResult{Token: token}
	err = db.Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&models.User{}).Where("username = ?", in.Username).Count(&taken).Error; err != nil {
			return err
		}
		if taken > 0 {
			return fieldError("username", "A user with that username already exists.")
		}

		result.User = models.User{
			Username: in.Username,
			Email:    in.Email,
			Password: string(hashed),
			IsActive: false,
		}
		if err := tx.Create(&result.User).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fieldError("username", "A user with that username already exists.")
			}
			return err
		}

		result.Student = models.Student{
			UserID:     result.User.ID,
			Bio:        in.Bio,
			ProfilePic: in.ProfilePic,
		}
		if err := tx.Omit(clause.Associations).Create(&result.Student).Error; err != nil {
			return err
		}

		if err := tx.Create(&models.VerificationToken{
			UserID:    result.User.ID,
			TokenHash: utils.HashToken(token),
			ExpiresAt: opts.Now.Add(opts.TokenTTL),
		}).Error; err != nil {
			return err
		}

		result.Link = VerificationLink(opts.SiteURL, result.User.ID, token)
		subject, body := utils.VerificationEmail(result.User.Username, result.Link)
		email, err := QueueEmail(tx, result.User.Email, subject, body)
		if err != nil {
			return err
		}
		result.Email = *email
		return nil
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: %w", err)
	}
	return result, nil
}

// VerificationLink is the absolute URL mailed to a new user.
func VerificationLink(siteURL string, userID uint, token string) string {
	return fmt.Sprintf("%s/verify/%s/%s/", strings.TrimRight(siteURL, "/"), utils.EncodeUID(userID), token)
}

// VerifyEmail activates the identity referenced by uid when token is a live,
// unused token issued to that identity. All failures are ErrInvalidToken.
func VerifyEmail(db *gorm.DB, uid, token string, now time.Time) (*models.User, error) {
	userID, err := utils.DecodeUID(uid)
	if err != nil || token == "" {
		return nil, ErrInvalidToken
	}

	var user models.User
	err = db.Transaction(func(tx *gorm.DB) error {
		var vt models.VerificationToken
		err := tx.Where("user_id = ? AND token_hash = ?", userID, utils.HashToken(token)).First(&vt).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidToken
		}
		if err != nil {
			return err
		}
		if vt.UsedAt != nil || !now.Before(vt.ExpiresAt) {
			return ErrInvalidToken
		}

		// Consume; a concurrent consumer makes this affect zero rows.
		res := tx.Model(&models.VerificationToken{}).
			Where("id = ? AND used_at IS NULL", vt.ID).
			Update("used_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInvalidToken
		}

		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvalidToken
			}
			return err
		}
		user.IsActive = true
		return tx.Model(&user).Update("is_active", true).Error
	})
	if err != nil {
		if errors.Is(err, ErrInvalidToken) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("verify email: %w", err)
	}
	return &user, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords both
// return ErrInvalidCredentials; ErrInactive is only returned after the
// password matched.
func Authenticate(db *gorm.DB, username, password string) (*models.User, error) {
	var user models.User
	err := db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInactive
	}
	return &user, nil
}

// RecordLogin stamps LastLogin and writes a LoginTracking row.
func RecordLogin(db *gorm.DB, user *models.User, ip, device string, at time.Time) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Update("last_login", at).Error; err != nil {
			return err
		}
		return tx.Create(&models.LoginTracking{
			UserID:    user.ID,
			IPAddress: ip,
			Device:    device,
			Timestamp: at,
		}).Error
	})
}

// ProfileInput is a validated profile form. ProfilePic is only replaced when
// non-nil.
type ProfileInput struct {
	FirstName  string
	LastName   string
	Email      string
	Bio        string
	ProfilePic *string
}

// UpdateProfile saves identity and profile fields together.
func UpdateProfile(db *gorm.DB, student *models.Student, in ProfileInput) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", student.UserID).Updates(map[string]interface{}{
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"email":      in.Email,
		}).Error; err != nil {
			return err
		}
		fields := map[string]interface{}{"bio": in.Bio}
		if in.ProfilePic != nil {
			fields["profile_pic"] = *in.ProfilePic
		}
		if err := tx.Model(&models.Student{}).Where("id = ?", student.ID).Updates(fields).Error; err != nil {
			return err
		}

		student.User.FirstName = in.FirstName
		student.User.LastName = in.LastName
		student.User.Email = in.Email
		student.Bio = in.Bio
		if in.ProfilePic != nil {
			student.ProfilePic = *in.ProfilePic
		}
		return nil
	})
}
