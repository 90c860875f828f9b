package domain

import "fmt"

// AppError is the base domain error type.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard domain error constructors.

// ErrUnauthenticated is returned when an operation requires a token and none
// was presented.
func ErrUnauthenticated() *AppError {
	return &AppError{Code: "UNAUTHENTICATED", Message: "authentication required", Status: 401}
}

// ErrInvalidCredentials covers both unknown username and wrong secret so that
// callers cannot enumerate accounts.
func ErrInvalidCredentials() *AppError {
	return &AppError{Code: "INVALID_CREDENTIALS", Message: "invalid username or password", Status: 401}
}

// ErrInvalidSession covers token-not-found, expired, and owner-banned alike.
// The cases are deliberately indistinguishable to the caller.
func ErrInvalidSession() *AppError {
	return &AppError{Code: "INVALID_SESSION", Message: "invalid or expired session, please log in again", Status: 401}
}

func ErrBanned(reason string) *AppError {
	if reason == "" {
		reason = "contact the administration"
	}
	return &AppError{Code: "BANNED", Message: fmt.Sprintf("account banned: %s", reason), Status: 403}
}

func ErrInsufficientPermission(required Role) *AppError {
	return &AppError{Code: "INSUFFICIENT_PERMISSION", Message: fmt.Sprintf("insufficient permissions, required: %s", required), Status: 403}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrConflict(msg string) *AppError {
	return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
}

// ErrNoFields is returned when an update payload is empty after allowlist
// filtering.
func ErrNoFields() *AppError {
	return &AppError{Code: "NO_FIELDS_PROVIDED", Message: "no updatable fields provided", Status: 400}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrAccountLocked(msg string) *AppError {
	return &AppError{Code: "ACCOUNT_LOCKED", Message: msg, Status: 429}
}

func ErrRateLimited() *AppError {
	return &AppError{Code: "RATE_LIMITED", Message: "too many requests, slow down", Status: 429}
}

// ErrStore marks the backing store as unreachable or failing. Surfaced as a
// service-level failure, never retried silently.
func ErrStore(op string, cause error) *AppError {
	return &AppError{Code: "STORE_UNAVAILABLE", Message: fmt.Sprintf("storage failure during %s", op), Status: 503, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
