package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected failure inside the service.
var ErrInternal = errors.New("internal error")

// ErrForbidden indicates the caller may not perform the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrCalculationForbidden is returned when a member is not eligible for a retirement calculation.
var ErrCalculationForbidden = errors.New("retirement calculation forbidden for member")

// ErrCalculationFailed indicates the calculation API could not produce figures.
var ErrCalculationFailed = errors.New("retirement calculation failed")

// ErrDatesAgesUnavailable indicates the calculation API did not return retirement dates and ages.
var ErrDatesAgesUnavailable = errors.New("retirement dates and ages unavailable")

// ErrMemberLocked indicates another request is already recalculating the member's data.
var ErrMemberLocked = errors.New("member is locked by a concurrent update")

// Journey state machine errors.
var (
	ErrJourneyNotFound  = errors.New("journey not found")
	ErrJourneyExpired   = errors.New("journey expired")
	ErrJourneySubmitted = errors.New("journey already submitted")
	ErrStepNotFound     = errors.New("journey step not found")
)

// AppError carries an HTTP-ish status code alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
