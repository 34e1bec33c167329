package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "workforce/internal/errors"
)

// translate converts storage errors into domain errors. duplicate is returned
// for unique constraint violations.
func translate(err error, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.ErrNotFound
	}
	if duplicate != nil && isUniqueViolation(err) {
		return duplicate
	}
	return err
}

// isUniqueViolation recognises unique constraint failures from every supported
// driver, including ones the dialector does not translate.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key")
}

func duplicateEmployeeEmail() error {
	return apperrors.NewFieldError("email", "email address must be unique", apperrors.ErrDuplicateEmail)
}

func duplicateCompanyName() error {
	return apperrors.NewFieldError("name", "company name must be unique", apperrors.ErrDuplicateName)
}

func duplicateDepartmentName() error {
	return apperrors.NewFieldError("name", "department name must be unique within company", apperrors.ErrDuplicateName)
}
