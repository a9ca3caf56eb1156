package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// Profile errors
	ErrProfileNotFound    = errors.New("profile not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Student errors
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Guardian link errors
var (
	ErrLinkNotFound       = errors.New("guardian link not found")
	ErrAlreadyLinked      = errors.New("an approved link with this student already exists")
	ErrDuplicateRequest   = errors.New("a pending link request for this student already exists")
	ErrLinkAlreadyDecided = errors.New("guardian link has already been decided")
)

// Plan errors
var (
	ErrPlanNotFound     = errors.New("plan not found")
	ErrPlanItemNotFound = errors.New("plan item not found")
	ErrPlanTaskNotFound = errors.New("plan task not found")
)

// Event errors
var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventFull            = errors.New("event has reached maximum attendees")
	ErrAlreadyRegistered    = errors.New("student is already registered for this event")
	ErrRegistrationNotFound = errors.New("event registration not found")
	ErrEventNotOpen         = errors.New("event is not open for registration")
)

// Resource errors
var (
	ErrContentNotFound = errors.New("resource content not found")
)

// Company errors
var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyNotApproved = errors.New("company is not approved for this action")
)

// Invitation errors
var (
	ErrInvitationNotFound = errors.New("invitation not found")
	ErrInvitationExpired  = errors.New("invitation has expired")
	ErrInvitationUsed     = errors.New("invitation is no longer usable")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a new custom error for conflict situations with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
