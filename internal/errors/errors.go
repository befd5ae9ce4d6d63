// Package errors provides custom error types for the Spendcycle API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Validation errors: rejected before any persistence, never partially applied.
var (
	ErrInvalidInput    = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInvalidWeekday  = &AppError{Code: "INVALID_WEEKDAY", Message: "Start weekday must be between 0 (Sunday) and 6 (Saturday)", StatusCode: http.StatusBadRequest}
	ErrInvalidDuration = &AppError{Code: "INVALID_DURATION", Message: "Cycle duration must be between 7 and 28 days", StatusCode: http.StatusBadRequest}
	ErrInvalidAmount   = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be greater than zero", StatusCode: http.StatusBadRequest}
	ErrInvalidTimezone = &AppError{Code: "INVALID_TIMEZONE", Message: "Unknown IANA timezone name", StatusCode: http.StatusBadRequest}
)

// Conflict errors: surfaced to the caller with no state mutated.
var (
	ErrBudgetActive    = &AppError{Code: "BUDGET_ACTIVE", Message: "An active budget cannot be deleted", StatusCode: http.StatusConflict}
	ErrPeriodOverlap   = &AppError{Code: "PERIOD_OVERLAP", Message: "Period overlaps an existing period of this budget", StatusCode: http.StatusConflict}
	ErrPeriodCompleted = &AppError{Code: "PERIOD_COMPLETED", Message: "A completed period cannot be modified", StatusCode: http.StatusConflict}
	ErrBudgetIsActive  = &AppError{Code: "BUDGET_IS_ACTIVE", Message: "The active budget cannot be scheduled as upcoming", StatusCode: http.StatusConflict}
)

// Not-found errors.
var (
	ErrBudgetNotFound  = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrPeriodNotFound  = &AppError{Code: "PERIOD_NOT_FOUND", Message: "Budget period not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrNoActivePeriod  = &AppError{Code: "NO_ACTIVE_PERIOD", Message: "No budget period is currently active", StatusCode: http.StatusNotFound}
)

// Store errors: logged at the failing sweep step; the remaining steps still
// run and the next scheduled sweep retries from scratch.
var (
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)
