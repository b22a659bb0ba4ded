package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"skilloria/models"
	"skilloria/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC)

func signupOpts() SignupOptions {
	return SignupOptions{
		SaltRound: bcrypt.MinCost,
		TokenTTL:  72 * time.Hour,
		SiteURL:   "http://localhost:3000/",
		Now:       testNow,
	}
}

func signupInput(username string) SignupInput {
	return SignupInput{Username: username, Email: username + "@example.com", Password: "pass1234", Bio: "hello"}
}

func TestSignupCreatesInactiveAccount(t *testing.T) {
	db := newTestDB(t)

	res, err := Signup(db, signupInput("alice"), signupOpts())
	require.NoError(t, err)

	assert.False(t, res.User.IsActive)
	assert.NotEqual(t, "pass1234", res.User.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(res.User.Password), []byte("pass1234")))
	assert.Equal(t, res.User.ID, res.Student.UserID)
	assert.Equal(t, "hello", res.Student.Bio)

	wantLink := "http://localhost:3000/verify/" + utils.EncodeUID(res.User.ID) + "/" + res.Token + "/"
	assert.Equal(t, wantLink, res.Link)

	var token models.VerificationToken
	require.NoError(t, db.Where("user_id = ?", res.User.ID).First(&token).Error)
	assert.Equal(t, utils.HashToken(res.Token), token.TokenHash)
	assert.NotEqual(t, res.Token, token.TokenHash)
	assert.True(t, token.ExpiresAt.Equal(testNow.Add(72*time.Hour)))

	var queued models.OutboundEmail
	require.NoError(t, db.First(&queued, res.Email.ID).Error)
	assert.Equal(t, "alice@example.com", queued.Recipient)
	assert.Contains(t, queued.HTML, res.Link)
	assert.Nil(t, queued.SentAt)
}

func TestSignupDuplicateUsername(t *testing.T) {
	db := newTestDB(t)
	_, err := Signup(db, signupInput("alice"), signupOpts())
	require.NoError(t, err)

	_, err = Signup(db, signupInput("alice"), signupOpts())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "username")

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.EqualValues(t, 1, users)
}

func TestSignupRollsBackWhenProfileInsertFails(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_students", func(tx *gorm.DB) {
		if tx.Statement.Table == "students" {
			_ = tx.AddError(errors.New("disk full"))
		}
	}))

	_, err := Signup(db, signupInput("alice"), signupOpts())
	require.Error(t, err)

	for _, model := range []interface{}{&models.User{}, &models.Student{}, &models.VerificationToken{}, &models.OutboundEmail{}} {
		var n int64
		require.NoError(t, db.Model(model).Count(&n).Error)
		assert.Zero(t, n, "%T", model)
	}
}

func TestVerifyEmail(t *testing.T) {
	db := newTestDB(t)
	res, err := Signup(db, signupInput("alice"), signupOpts())
	require.NoError(t, err)
	uid := utils.EncodeUID(res.User.ID)

	user, err := VerifyEmail(db, uid, res.Token, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.True(t, user.IsActive)

	var stored models.User
	require.NoError(t, db.First(&stored, res.User.ID).Error)
	assert.True(t, stored.IsActive)

	// single use
	_, err = VerifyEmail(db, uid, res.Token, testNow.Add(2*time.Hour))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyEmailRejects(t *testing.T) {
	db := newTestDB(t)
	alice, err := Signup(db, signupInput("alice"), signupOpts())
	require.NoError(t, err)
	bob, err := Signup(db, signupInput("bob"), signupOpts())
	require.NoError(t, err)

	tests := []struct {
		name  string
		uid   string
		token string
		at    time.Time
	}{
		{"expired", utils.EncodeUID(alice.User.ID), alice.Token, testNow.Add(72 * time.Hour)},
		{"other user's token", utils.EncodeUID(bob.User.ID), alice.Token, testNow},
		{"unknown user", utils.EncodeUID(9999), alice.Token, testNow},
		{"malformed uid", "%%%", alice.Token, testNow},
		{"empty token", utils.EncodeUID(alice.User.ID), "", testNow},
		{"wrong token", utils.EncodeUID(alice.User.ID), strings.Repeat("a", 43), testNow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := VerifyEmail(db, tt.uid, tt.token, tt.at)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	var active int64
	require.NoError(t, db.Model(&models.User{}).Where("is_active = ?", true).Count(&active).Error)
	assert.Zero(t, active)
}

func TestAuthenticate(t *testing.T) {
	db := newTestDB(t)
	res, err := Signup(db, signupInput("alice"), signupOpts())
	require.NoError(t, err)

	_, unknownErr := Authenticate(db, "nobody", "pass1234")
	_, wrongErr := Authenticate(db, "alice", "wrong")
	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr.Error(), wrongErr.Error())

	_, err = Authenticate(db, "alice", "pass1234")
	assert.ErrorIs(t, err, ErrInactive)

	_, err = VerifyEmail(db, utils.EncodeUID(res.User.ID), res.Token, testNow)
	require.NoError(t, err)

	user, err := Authenticate(db, "alice", "pass1234")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	require.NoError(t, RecordLogin(db, user, "10.0.0.1", "go-test", testNow))
	var tracked models.LoginTracking
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&tracked).Error)
	assert.Equal(t, "10.0.0.1", tracked.IPAddress)
	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.NotNil(t, stored.LastLogin)
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "alice")
	pic := "profile_pics/a.png"

	err := UpdateProfile(db, student, ProfileInput{
		FirstName:  "Alice",
		LastName:   "Liddell",
		Email:      "alice@wonder.land",
		Bio:        "Curious",
		ProfilePic: &pic,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice Liddell", student.User.FullName())

	reloaded, err := GetStudentForIdentity(db, student.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", reloaded.User.FirstName)
	assert.Equal(t, "alice@wonder.land", reloaded.User.Email)
	assert.Equal(t, "Curious", reloaded.Bio)
	assert.Equal(t, pic, reloaded.ProfilePic)

	// nil picture keeps the current one
	require.NoError(t, UpdateProfile(db, reloaded, ProfileInput{FirstName: "A", LastName: "L", Email: "a@l.io"}))
	again, err := GetStudentForIdentity(db, student.UserID)
	require.NoError(t, err)
	assert.Equal(t, pic, again.ProfilePic)
	assert.Empty(t, again.Bio)
}

func TestGetStudentForIdentityMissing(t *testing.T) {
	db := newTestDB(t)
	_, err := GetStudentForIdentity(db, 7)
	assert.ErrorIs(t, err, ErrNotFound)
}
