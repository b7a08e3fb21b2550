package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ErrorCode is the category of an application error.
type ErrorCode string

const (
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	ErrCodeDatabaseError     ErrorCode = "DATABASE_ERROR"
	ErrCodeTransactionFailed ErrorCode = "TRANSACTION_FAILED"
	ErrCodeCacheError        ErrorCode = "CACHE_ERROR"
)

// AuthReason is the specific kind of an authentication failure.
type AuthReason string

const (
	AuthMissingHeader         AuthReason = "MissingHeader"
	AuthMissingHash           AuthReason = "MissingHash"
	AuthMalformedTimestamp    AuthReason = "MalformedTimestamp"
	AuthExpired               AuthReason = "Expired"
	AuthInvalidSignature      AuthReason = "InvalidSignature"
	AuthMissingUser           AuthReason = "MissingUser"
	AuthInvalidUserJSON       AuthReason = "InvalidUserJson"
	AuthMissingRequiredFields AuthReason = "MissingRequiredFields"
	AuthInvalidScheme         AuthReason = "InvalidScheme"
	AuthWrongTokenType        AuthReason = "WrongTokenType"
)

var authMessages = map[AuthReason]string{
	AuthMissingHeader:         "missing authentication header",
	AuthMissingHash:           "hash not found in init data",
	AuthMalformedTimestamp:    "invalid auth_date in init data",
	AuthExpired:               "credentials expired",
	AuthInvalidSignature:      "invalid signature",
	AuthMissingUser:           "user not found in init data",
	AuthInvalidUserJSON:       "invalid user json in init data",
	AuthMissingRequiredFields: "required user fields missing",
	AuthInvalidScheme:         "invalid authorization scheme",
	AuthWrongTokenType:        "invalid token type: expected 'access'",
}

// Bad request and forbidden reasons used by the domain services.
const (
	ReasonSelfRequest        = "SelfRequest"
	ReasonAlreadyFriends     = "AlreadyFriends"
	ReasonNotOwner           = "NotOwner"
	ReasonNotFriend          = "NotFriend"
	ReasonOwnerCannotReserve = "OwnerCannotReserve"
	ReasonAlreadyReserved    = "AlreadyReserved"
)

// AppError is a typed application error.
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Reason    string                 `json:"reason,omitempty"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Context   map[string]string      `json:"context,omitempty"`
	Stack     []string               `json:"-"`
	Timestamp time.Time              `json:"timestamp"`
	RequestID string                 `json:"request_id,omitempty"`
	UserID    int64                  `json:"user_id,omitempty"`
	Cause     error                  `json:"-"`
}

func (e *AppError) Error() string {
	prefix := string(e.Code)
	if e.Reason != "" {
		prefix += "/" + e.Reason
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", prefix, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError by code and, when the target has one, by reason.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if e.Code != t.Code {
		return false
	}
	return t.Reason == "" || e.Reason == t.Reason
}

func (e *AppError) IsNotFound() bool {
	return e.Code == ErrCodeNotFound
}

func (e *AppError) IsValidation() bool {
	return e.Code == ErrCodeValidation || e.Code == ErrCodeBadRequest || e.Code == ErrCodeAlreadyExists
}

func (e *AppError) IsUnauthorized() bool {
	return e.Code == ErrCodeUnauthorized || e.Code == ErrCodeForbidden
}

func (e *AppError) IsInternal() bool {
	return e.Code == ErrCodeInternal ||
		e.Code == ErrCodeDatabaseError ||
		e.Code == ErrCodeTransactionFailed ||
		e.Code == ErrCodeCacheError
}

// WithContext adds a request-scoped key/value to the error.
func (e *AppError) WithContext(key, value string) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

// WithDetail adds a detail rendered to the client.
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func (e *AppError) WithRequestID(requestID string) *AppError {
	e.RequestID = requestID
	return e
}

func (e *AppError) WithUserID(userID int64) *AppError {
	e.UserID = userID
	return e
}

func (e *AppError) WithReason(reason string) *AppError {
	e.Reason = reason
	return e
}

// New creates an application error.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now(),
		Stack:     getStackTrace(),
	}
}

// Wrap wraps err into an application error.
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.Cause = err
	return appErr
}

func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

func getStackTrace() []string {
	var stack []string
	for i := 2; ; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}
		if strings.Contains(fn.Name(), "internal/common/errors") {
			continue
		}
		stack = append(stack, fmt.Sprintf("%s:%d %s", file, line, fn.Name()))
		if len(stack) >= 10 {
			break
		}
	}
	return stack
}

// NewAuthError creates an unauthorized error of the given kind.
func NewAuthError(reason AuthReason) *AppError {
	msg, ok := authMessages[reason]
	if !ok {
		msg = "unauthorized"
	}
	return New(ErrCodeUnauthorized, msg).WithReason(string(reason))
}

// WrapAuthError is NewAuthError keeping the underlying cause for logs.
func WrapAuthError(err error, reason AuthReason) *AppError {
	appErr := NewAuthError(reason)
	appErr.Cause = err
	return appErr
}

func NewValidationError(field, reason string) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf("Validation failed for field '%s': %s", field, reason)).
		WithDetail("field", field).
		WithDetail("reason", reason)
}

// NewNotFoundError creates a not-found error for resource with the given id.
func NewNotFoundError(resource string, id interface{}) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s with id=%v not found", resource, id)).
		WithReason(resource).
		WithDetail("resource", resource).
		WithDetail("id", id)
}

// NewAlreadyExistsError reports a uniqueness violation on field.
func NewAlreadyExistsError(field string) *AppError {
	return New(ErrCodeAlreadyExists, fmt.Sprintf("Already exists: %s", field)).
		WithReason(field).
		WithDetail("field", field)
}

func NewBadRequestError(reason, message string) *AppError {
	return New(ErrCodeBadRequest, message).WithReason(reason)
}

func NewForbiddenError(reason, message string) *AppError {
	return New(ErrCodeForbidden, message).WithReason(reason)
}

func NewConflictError(resource, reason, message string) *AppError {
	return New(ErrCodeConflict, message).
		WithReason(reason).
		WithDetail("resource", resource)
}

func NewDatabaseError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseError, fmt.Sprintf("Database operation failed: %s", operation)).
		WithDetail("operation", operation)
}

// AsAppError extracts an *AppError from the chain of err.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsAppError reports whether err wraps an *AppError.
func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AuthReasonOf returns the authentication failure kind carried by err, if any.
func AuthReasonOf(err error) (AuthReason, bool) {
	appErr, ok := AsAppError(err)
	if !ok || appErr.Code != ErrCodeUnauthorized {
		return "", false
	}
	return AuthReason(appErr.Reason), true
}

// CodeOf returns the code of err, or ErrCodeInternal for foreign errors.
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeInternal
}

// Matchers for errors.Is. They carry no message and are never returned.
var (
	ErrUnauthorized  = &AppError{Code: ErrCodeUnauthorized}
	ErrNotFound      = &AppError{Code: ErrCodeNotFound}
	ErrAlreadyExists = &AppError{Code: ErrCodeAlreadyExists}
	ErrBadRequest    = &AppError{Code: ErrCodeBadRequest}
	ErrForbidden     = &AppError{Code: ErrCodeForbidden}
	ErrConflict      = &AppError{Code: ErrCodeConflict}
)

// Auth returns a matcher for the given authentication failure kind.
func Auth(reason AuthReason) error {
	return &AppError{Code: ErrCodeUnauthorized, Reason: string(reason)}
}

// Reason returns a matcher for code with a specific reason.
func Reason(code ErrorCode, reason string) error {
	return &AppError{Code: code, Reason: reason}
}
