package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when a request carries no valid credentials.
	ErrUnauthorized = errors.New("authentication credentials were not provided or are invalid")
	// ErrForbidden is returned when an authenticated user is denied by policy.
	ErrForbidden = errors.New("you do not have permission to perform this action")
	// ErrNotFound is returned for missing entities and for hierarchy mismatches.
	ErrNotFound = errors.New("not found")
	// ErrInvalidTransition is returned when a status change is not in the transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInconsistentHireDate is returned when hired_on disagrees with the status.
	ErrInconsistentHireDate = errors.New("inconsistent hire date")
	// ErrFieldFormat is returned when a field fails its format rule.
	ErrFieldFormat = errors.New("invalid field format")
	// ErrDuplicateEmail is returned when an employee email is already taken.
	ErrDuplicateEmail = errors.New("email address must be unique")
	// ErrDuplicateName is returned when a company or department name is already taken.
	ErrDuplicateName = errors.New("name must be unique")
	// ErrCrossCompanyTransfer is returned when moving an employee to another company's department.
	ErrCrossCompanyTransfer = errors.New("cannot transfer employee to a department in a different company")

	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// FieldError is a validation failure attached to a single request field.
type FieldError struct {
	Field  string
	Reason string
	Kind   error
}

// NewFieldError creates a FieldError. A nil kind defaults to ErrFieldFormat.
func NewFieldError(field, reason string, kind error) *FieldError {
	if kind == nil {
		kind = ErrFieldFormat
	}
	return &FieldError{Field: field, Reason: reason, Kind: kind}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Unwrap() error {
	return e.Kind
}

// TransitionError names the rejected source and target statuses.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
	Field      string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
		Field: e.Field,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var fieldErr *FieldError
	hasField := errors.As(err, &fieldErr)

	var mapped *HTTPError
	switch {
	case errors.Is(err, ErrUnauthorized):
		mapped = NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrForbidden):
		mapped = NewHTTPError(http.StatusForbidden, ErrForbidden.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		mapped = NewHTTPError(http.StatusNotFound, ErrNotFound.Error(), "NOT_FOUND")
	case errors.Is(err, ErrInvalidTransition):
		mapped = NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_TRANSITION")
	case errors.Is(err, ErrInconsistentHireDate):
		mapped = NewHTTPError(http.StatusBadRequest, err.Error(), "INCONSISTENT_HIRE_DATE")
	case errors.Is(err, ErrDuplicateEmail):
		mapped = NewHTTPError(http.StatusBadRequest, ErrDuplicateEmail.Error(), "DUPLICATE_EMAIL")
	case errors.Is(err, ErrDuplicateName):
		mapped = NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE_NAME")
	case errors.Is(err, ErrCrossCompanyTransfer):
		mapped = NewHTTPError(http.StatusBadRequest, ErrCrossCompanyTransfer.Error(), "CROSS_COMPANY_TRANSFER_DENIED")
	case errors.Is(err, ErrFieldFormat):
		mapped = NewHTTPError(http.StatusBadRequest, err.Error(), "FIELD_FORMAT_ERROR")
	case errors.Is(err, ErrInvalidCredentials):
		mapped = NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidRefreshToken):
		mapped = NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrUserAlreadyExists):
		mapped = NewHTTPError(http.StatusConflict, err.Error(), "USER_ALREADY_EXISTS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	if hasField {
		mapped.Field = fieldErr.Field
	}
	return mapped
}
