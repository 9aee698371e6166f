// Package errors provides the application error type shared by services and
// handlers. Core entity operations never fail; these errors describe lookup,
// input and persistence failures at the service boundary and never leak
// internal details to clients.
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

// Is matches any AppError with the same code, so wrapped copies of a
// sentinel still satisfy errors.Is(err, ErrPhaseNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

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

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// Project errors.
var (
	ErrProjectNotFound = &AppError{Code: "PROJECT_NOT_FOUND", Message: "Project not found", StatusCode: http.StatusNotFound}
)

// Phase errors.
var (
	ErrPhaseNotFound = &AppError{Code: "PHASE_NOT_FOUND", Message: "Phase not found", StatusCode: http.StatusNotFound}
	ErrInvalidDates  = &AppError{Code: "INVALID_DATES", Message: "Planned end date must not be before planned start date", StatusCode: http.StatusBadRequest}
)

// Task errors.
var (
	ErrTaskNotFound      = &AppError{Code: "TASK_NOT_FOUND", Message: "Task not found", StatusCode: http.StatusNotFound}
	ErrInvalidTaskAction = &AppError{Code: "INVALID_TASK_ACTION", Message: "Unsupported task action", StatusCode: http.StatusBadRequest}
)

// Budget and expense errors.
var (
	ErrBudgetNotFound  = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetExists    = &AppError{Code: "BUDGET_EXISTS", Message: "Project already has a budget", StatusCode: http.StatusConflict}
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidAmount   = &AppError{Code: "INVALID_AMOUNT", Message: "Amount must be a positive number", StatusCode: http.StatusBadRequest}
)
