package validators

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validate is a type alias for validator.Validate.
type Validate = validator.Validate

// ValidationErrors is a type alias for validator.ValidationErrors.
type ValidationErrors = validator.ValidationErrors

// FieldError is a type alias for validator.FieldError.
type FieldError = validator.FieldError

// TagSQLIdentifier validates an optionally schema-qualified SQL identifier such as
// "perf_log" or "bench.perf_log".
const TagSQLIdentifier = "sqlident"

var sqlIdentifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// IsSQLIdentifier reports whether s is safe to interpolate as a table name.
func IsSQLIdentifier(s string) bool {
	return sqlIdentifierPattern.MatchString(s)
}

// TagPositiveDuration validates a Go duration string greater than zero, such as "300s".
const TagPositiveDuration = "posduration"

// IsPositiveDuration reports whether s parses as a duration greater than zero.
func IsPositiveDuration(s string) bool {
	d, err := time.ParseDuration(s)
	return err == nil && d > 0
}

// New creates a new validator instance with the custom tags registered.
func New() *Validate {
	v := validator.New()
	// registration only fails for an empty tag or nil func
	_ = v.RegisterValidation(TagSQLIdentifier, func(fl validator.FieldLevel) bool {
		return IsSQLIdentifier(fl.Field().String())
	})
	_ = v.RegisterValidation(TagPositiveDuration, func(fl validator.FieldLevel) bool {
		return IsPositiveDuration(fl.Field().String())
	})
	return v
}
