// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/keyosk/internal/errors"
)

var (
	// friendlyNameRegex matches URL friendly names such as "stargate" or "fire-at-will".
	friendlyNameRegex = regexp.MustCompile(`^([a-z0-9]+)(-[a-z0-9]+)*$`)

	// audienceRegex matches the value placed in the aud claim of a domain's tokens.
	audienceRegex = regexp.MustCompile(`^[a-z][a-z0-9]{2,9}$`)

	titleRegex = regexp.MustCompile(`^.{1,30}$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// FriendlyName validates domain, access list and permission names: lowercase
// alphanumeric words joined by single hyphens.
var FriendlyName = validation.NewStringRuleWithError(
	friendlyNameRegex.MatchString,
	validation.NewError(
		"validation_friendly_name",
		"must contain lowercase letters and digits separated by single hyphens",
	),
)

// Audience validates a domain audience: a lowercase letter followed by 2 to 9
// lowercase letters or digits.
var Audience = validation.NewStringRuleWithError(
	audienceRegex.MatchString,
	validation.NewError("validation_audience", "must be 3-10 lowercase letters or digits starting with a letter"),
)

// Title validates a human friendly display title of 1 to 30 characters.
var Title = validation.NewStringRuleWithError(
	titleRegex.MatchString,
	validation.NewError("validation_title", "must be between 1 and 30 characters"),
)

// UUID validates the textual form of a uuid.
var UUID = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	},
	validation.NewError("validation_uuid", "must be a valid UUID"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// ScalarExtras validates that every value of a string keyed map is a JSON scalar:
// string, number, boolean or null.
var ScalarExtras = validation.By(func(value interface{}) error {
	extras, ok := value.(map[string]any)
	if !ok {
		return validation.NewError("validation_extras_type", "must be an object")
	}
	for key, v := range extras {
		switch v.(type) {
		case nil, string, bool, float64, float32, int, int32, int64, uint, uint32, uint64:
		default:
			return validation.NewError(
				"validation_extras_scalar",
				"value of '"+key+"' must be a string, number, boolean or null",
			)
		}
	}
	return nil
})
