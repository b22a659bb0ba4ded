package validators

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleForm struct {
	Username string `form:"username" validate:"required,max=10,username"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=4"`
}

func TestStruct(t *testing.T) {
	assert.Nil(t, Struct(&sampleForm{Username: "alice.b+1", Email: "a@example.com", Password: "abcd"}))

	errs := Struct(&sampleForm{Username: "bad name!", Email: "nope", Password: "abc"})
	assert.Contains(t, errs["username"], "Enter a valid username")
	assert.Equal(t, "Enter a valid email address.", errs["email"])
	assert.Equal(t, "Ensure this value has at least 4 characters.", errs["password"])

	errs = Struct(&sampleForm{})
	assert.Equal(t, "This field is required.", errs["username"])
	assert.Len(t, errs, 3)

	errs = Struct(&sampleForm{Username: "abcdefghijk", Email: "a@example.com", Password: "abcd"})
	assert.Equal(t, "Ensure this value has at most 10 characters.", errs["username"])
}

func TestTrim(t *testing.T) {
	a, b := "  x ", "\ty\n"
	Trim(&a, &b)
	assert.Equal(t, "x", a)
	assert.Equal(t, "y", b)
}
