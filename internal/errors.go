package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeTransition   ErrorType = "INVALID_TRANSITION"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidJSON      ErrorCode = "INVALID_JSON"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeNotAuthenticated   ErrorCode = "NOT_AUTHENTICATED"
	ErrCodeCrossTenant        ErrorCode = "CROSS_TENANT_ACCESS"
	ErrCodeInsufficientRole   ErrorCode = "INSUFFICIENT_ROLE"

	ErrCodeUserNotFound    ErrorCode = "USER_NOT_FOUND"
	ErrCodeCompanyNotFound ErrorCode = "COMPANY_NOT_FOUND"
	ErrCodeAccessNotFound  ErrorCode = "ACCESS_NOT_FOUND"
	ErrCodeProductNotFound ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeVehicleNotFound ErrorCode = "VEHICLE_NOT_FOUND"
	ErrCodeOrderNotFound   ErrorCode = "ORDER_NOT_FOUND"

	ErrCodeEmailTaken       ErrorCode = "EMAIL_ALREADY_REGISTERED"
	ErrCodeSlugTaken        ErrorCode = "SLUG_ALREADY_REGISTERED"
	ErrCodeSKUTaken         ErrorCode = "SKU_ALREADY_REGISTERED"
	ErrCodePlateTaken       ErrorCode = "PLATE_ALREADY_REGISTERED"
	ErrCodeOrderNumberTaken ErrorCode = "ORDER_NUMBER_ALREADY_REGISTERED"

	ErrCodeInvalidRole       ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidStatus     ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidTransition ErrorCode = "INVALID_STATUS_TRANSITION"
)

// AppError is the error shape every service returns to the transport layer.
// StatusCode and Cause never reach the wire.
type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewTransitionError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeTransition,
		Code:       ErrCodeInvalidTransition,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	// Authentication failures stay deliberately vague: the caller never
	// learns whether the email exists or the password was wrong.
	ErrInvalidCredentials = NewUnauthorizedError("invalid credentials", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("user account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)

	ErrNotAuthenticated = NewForbiddenError("not authenticated", ErrCodeNotAuthenticated)
	ErrCrossTenant      = NewForbiddenError("cross-tenant access denied", ErrCodeCrossTenant)
	ErrInsufficientRole = NewForbiddenError("insufficient role for this operation", ErrCodeInsufficientRole)

	ErrUserNotFound    = NewNotFoundError("user not found", ErrCodeUserNotFound)
	ErrCompanyNotFound = NewNotFoundError("company not found", ErrCodeCompanyNotFound)
	ErrAccessNotFound  = NewNotFoundError("company access not found", ErrCodeAccessNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
