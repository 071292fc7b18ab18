package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yigit/studentcrm/internal/app/models"
)

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("asha@example.com"))
	assert.False(t, IsEmail("asha"))
	assert.False(t, IsEmail(""))
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "asha@example.com", NormalizeEmail("  Asha@Example.COM "))
}

func TestMissingFields(t *testing.T) {
	doc := models.Record{"Name": "Asha", "Email_Id": "  ", "Country": nil, "Date": 0.0}

	got := MissingFields(doc, []string{"Name", "Email_Id", "Country", "Date", "Caller"})
	assert.Equal(t, []string{"Email_Id", "Country", "Caller"}, got)
	assert.Empty(t, MissingFields(doc, []string{"Name"}))
}

func TestStruct(t *testing.T) {
	type payload struct {
		Email string `validate:"required,email"`
	}
	assert.NoError(t, Struct(payload{Email: "a@b.co"}))
	assert.Error(t, Struct(payload{Email: "nope"}))
}

func TestTooLongSecret(t *testing.T) {
	names := []string{"password", "securityAnswer"}

	_, tooLong := TooLongSecret(names, strings.Repeat("x", SecretMaxBytes), "ok")
	assert.False(t, tooLong)

	name, tooLong := TooLongSecret(names, "ok", strings.Repeat("é", 37))
	assert.True(t, tooLong)
	assert.Equal(t, "securityAnswer", name)
}
