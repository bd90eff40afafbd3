// Package errors provides custom error types for the Finspace API.
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

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Space errors.
var (
	ErrSpaceNotFound       = &AppError{Code: "SPACE_NOT_FOUND", Message: "Space not found", StatusCode: http.StatusNotFound}
	ErrNotSpaceMember      = &AppError{Code: "NOT_SPACE_MEMBER", Message: "You are not a member of this space", StatusCode: http.StatusForbidden}
	ErrAlreadyMember       = &AppError{Code: "ALREADY_MEMBER", Message: "You are already a member of this space", StatusCode: http.StatusConflict}
	ErrInvalidInviteCode   = &AppError{Code: "INVALID_INVITE_CODE", Message: "Invalid invite code", StatusCode: http.StatusNotFound}
	ErrOwnerCannotLeave    = &AppError{Code: "OWNER_CANNOT_LEAVE", Message: "Owner cannot leave the space. Transfer ownership or delete the space", StatusCode: http.StatusBadRequest}
	ErrPersonalSpaceExists = &AppError{Code: "PERSONAL_SPACE_EXISTS", Message: "User already has a personal space", StatusCode: http.StatusConflict}
)

// Budget errors.
var (
	ErrBudgetNotFound     = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetItemNotFound = &AppError{Code: "BUDGET_ITEM_NOT_FOUND", Message: "Budget item not found", StatusCode: http.StatusNotFound}
	ErrMasterBudgetExists = &AppError{Code: "MASTER_BUDGET_EXISTS", Message: "A master budget already exists for this month", StatusCode: http.StatusConflict}
	ErrUnknownFramework   = &AppError{Code: "UNKNOWN_FRAMEWORK", Message: "Unknown budget framework", StatusCode: http.StatusBadRequest}
	ErrInvalidHierarchy   = &AppError{Code: "INVALID_HIERARCHY", Message: "Budget items may only be nested one level under a parent", StatusCode: http.StatusBadRequest}
	ErrAggregationFailed  = &AppError{Code: "AGGREGATION_FAILED", Message: "Failed to recalculate budget totals", StatusCode: http.StatusInternalServerError}
)

// Currency errors.
var (
	ErrCurrencyNotFound = &AppError{Code: "CURRENCY_NOT_FOUND", Message: "Currency not found", StatusCode: http.StatusNotFound}
	ErrCurrencyExists   = &AppError{Code: "CURRENCY_EXISTS", Message: "A currency with this code already exists", StatusCode: http.StatusConflict}
)
