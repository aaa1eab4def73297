package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code and a stable reason code
type AppError struct {
	Code    int          `json:"code"`
	Reason  string       `json:"reason,omitempty"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Is matches errors by reason code so callers can use errors.Is against the sentinels below.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Reason == "" {
		return e == t
	}
	return e.Reason == t.Reason
}

// Reason codes
const (
	ReasonInvalidQuantity         = "invalid_quantity"
	ReasonNotFound                = "not_found"
	ReasonInsufficientStock       = "insufficient_stock"
	ReasonLineNotFound            = "line_not_found"
	ReasonCartNotEmpty            = "cart_not_empty"
	ReasonAlreadyProcessed        = "already_processed"
	ReasonInvalidCart             = "invalid_cart"
	ReasonEmptyCart               = "empty_cart"
	ReasonReasonRequired          = "reason_required"
	ReasonPaymentMismatch         = "payment_mismatch"
	ReasonTillBusy                = "till_busy"
	ReasonTillClosed              = "till_closed"
	ReasonNoTillSelected          = "no_till_selected"
	ReasonTillNotFound            = "till_not_found"
	ReasonAccessDenied            = "access_denied"
	ReasonHeldTransactionsPending = "held_transactions_pending"
	ReasonConfirmationMismatch    = "confirmation_mismatch"
	ReasonMissingPhysicalCountAck = "missing_physical_count_ack"
	ReasonReauthRequired          = "reauth_required"
	ReasonReprintLimitReached     = "reprint_limit_reached"
	ReasonInsufficientPoints      = "insufficient_points"
)

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden          = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrConflict           = &AppError{Code: http.StatusConflict, Message: "Resource already exists"}
	ErrUnprocessable      = &AppError{Code: http.StatusUnprocessableEntity, Message: "Unprocessable entity"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid email or password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// POS errors. Use the constructors below when the message should name the subject.
var (
	ErrInvalidQuantity         = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonInvalidQuantity, Message: "Quantity must be between 1 and 999"}
	ErrInsufficientStock       = &AppError{Code: http.StatusConflict, Reason: ReasonInsufficientStock, Message: "Insufficient stock"}
	ErrLineNotFound            = &AppError{Code: http.StatusNotFound, Reason: ReasonLineNotFound, Message: "Cart line not found"}
	ErrCartNotEmpty            = &AppError{Code: http.StatusConflict, Reason: ReasonCartNotEmpty, Message: "Cart must be empty"}
	ErrAlreadyProcessed        = &AppError{Code: http.StatusConflict, Reason: ReasonAlreadyProcessed, Message: "Held transaction already processed"}
	ErrInvalidCart             = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonInvalidCart, Message: "Cart is empty or contains an invalid line"}
	ErrEmptyCart               = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonEmptyCart, Message: "Cart is empty"}
	ErrReasonRequired          = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonReasonRequired, Message: "A reason is required"}
	ErrPaymentMismatch         = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonPaymentMismatch, Message: "Payments do not match the amount due"}
	ErrTillBusy                = &AppError{Code: http.StatusConflict, Reason: ReasonTillBusy, Message: "Till is open for another user"}
	ErrTillClosed              = &AppError{Code: http.StatusConflict, Reason: ReasonTillClosed, Message: "Till is not open"}
	ErrNoTillSelected          = &AppError{Code: http.StatusConflict, Reason: ReasonNoTillSelected, Message: "No till selected"}
	ErrTillNotFound            = &AppError{Code: http.StatusNotFound, Reason: ReasonTillNotFound, Message: "Till not found"}
	ErrAccessDenied            = &AppError{Code: http.StatusForbidden, Reason: ReasonAccessDenied, Message: "Access denied"}
	ErrHeldTransactionsPending = &AppError{Code: http.StatusConflict, Reason: ReasonHeldTransactionsPending, Message: "Held transactions must be resolved first"}
	ErrConfirmationMismatch    = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonConfirmationMismatch, Message: "Confirmation phrase does not match"}
	ErrMissingPhysicalCountAck = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonMissingPhysicalCountAck, Message: "Physical count must be acknowledged"}
	ErrReauthRequired          = &AppError{Code: http.StatusUnauthorized, Reason: ReasonReauthRequired, Message: "Re-authentication required"}
	ErrReprintLimitReached     = &AppError{Code: http.StatusConflict, Reason: ReasonReprintLimitReached, Message: "Reprint limit reached"}
	ErrInsufficientPoints      = &AppError{Code: http.StatusUnprocessableEntity, Reason: ReasonInsufficientPoints, Message: "Insufficient loyalty points"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Reason:  ReasonNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewInsufficientStockError names the product that could not be deducted
func NewInsufficientStockError(name string, requested, available int) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Reason:  ReasonInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", name, requested, available),
	}
}

// NewPaymentMismatchError reports the difference between paid and due amounts in cents
func NewPaymentMismatchError(paid, due int64) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Reason:  ReasonPaymentMismatch,
		Message: fmt.Sprintf("Payments total %d but %d is due", paid, due),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// HasReason reports whether err carries the given reason code
func HasReason(err error, reason string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Reason == reason
	}
	return false
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
