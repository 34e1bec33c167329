package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "workforce/internal/errors"
)

// mobilePattern accepts an optional leading "+", an optional country code 1,
// then 9 to 15 digits.
var mobilePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidMobile reports whether s is an acceptable phone number.
func ValidMobile(s string) bool {
	return mobilePattern.MatchString(s)
}

// ContactValidator checks the contact fields of an employee.
type ContactValidator struct {
	validate *validator.Validate
}

// NewContactValidator creates a new contact validator.
func NewContactValidator() *ContactValidator {
	return &ContactValidator{validate: validator.New()}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks standard address syntax.
func (v *ContactValidator) ValidateEmail(email string) error {
	if err := v.validate.Var(email, "required,email"); err != nil {
		return apperrors.NewFieldError("email", "enter a valid email address", nil)
	}
	return nil
}

// ValidateMobile checks the phone number pattern.
func (v *ContactValidator) ValidateMobile(mobile string) error {
	if !ValidMobile(mobile) {
		return apperrors.NewFieldError("mobile", "phone number must be entered in the format '+999999999', up to 15 digits allowed", nil)
	}
	return nil
}

// ValidateName rejects blank names.
func (v *ContactValidator) ValidateName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.NewFieldError(field, "this field may not be blank", nil)
	}
	return nil
}
