package validation

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/yigit/studentcrm/internal/app/models"
)

// PasswordMinLength applies to signup and password reset.
const PasswordMinLength = 6

// SecretMaxBytes is the longest input bcrypt accepts.
const SecretMaxBytes = 72

var (
	once     sync.Once
	validate *validator.Validate
)

// Validator returns the shared validator instance.
func Validator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Struct validates obj against its `validate` tags.
func Struct(obj interface{}) error {
	return Validator().Struct(obj)
}

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return Validator().Var(s, "required,email") == nil
}

// NormalizeEmail lower-cases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TooLongSecret returns the first name whose value exceeds SecretMaxBytes.
// names and values are paired by index.
func TooLongSecret(names []string, values ...string) (string, bool) {
	for i, v := range values {
		if len(v) > SecretMaxBytes && i < len(names) {
			return names[i], true
		}
	}
	return "", false
}

// MissingFields returns every field of fields that is absent, null or blank in doc.
func MissingFields(doc models.Record, fields []string) []string {
	var missing []string
	for _, f := range fields {
		if !doc.Has(f) {
			missing = append(missing, f)
		}
	}
	return missing
}
