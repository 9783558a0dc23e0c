package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict is returned when there's a conflict (e.g., duplicate)
	ErrConflict = errors.New("resource conflict")

	// ErrPermissionDenied is returned when a user doesn't have permission for an action
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthorized is returned when credentials are missing or wrong
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidTransition is returned when a job status change is not allowed
	// from the current status
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrJobAlreadyClaimed is returned when a pool job was claimed by someone else
	ErrJobAlreadyClaimed = errors.New("job already claimed")

	// ErrDailyCapReached is returned when a technician is at their daily job limit
	ErrDailyCapReached = errors.New("technician daily job limit reached")

	// ErrQuoteNotOpen is returned when accepting or declining a quote that is
	// no longer awaiting a response
	ErrQuoteNotOpen = errors.New("quote is not open for response")

	// ErrQuoteExpired is returned when the quote's expiry has passed
	ErrQuoteExpired = errors.New("quote has expired")

	// ErrConsentRequired is returned when a contact opt-in lacks the matching
	// ownership confirmation
	ErrConsentRequired = errors.New("opt-in requires ownership confirmation")

	// ErrStatementExists is returned when payroll was already run for the period
	ErrStatementExists = errors.New("payroll statement already exists for period")
)
