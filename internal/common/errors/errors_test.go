package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesCodeAndReason(t *testing.T) {
	err := NewAuthError(AuthExpired)

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.ErrorIs(t, err, Auth(AuthExpired))
	assert.NotErrorIs(t, err, Auth(AuthInvalidSignature))
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestAppError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("reserve: %w", NewForbiddenError(ReasonNotFriend, "not a friend"))

	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, err, Reason(ErrCodeForbidden, ReasonNotFriend))
	assert.NotErrorIs(t, err, Reason(ErrCodeForbidden, ReasonNotOwner))
}

func TestAppError_UnwrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := NewDatabaseError("get user", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsInternal())
	assert.Contains(t, err.Error(), "connection reset")
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("Gift", 5)

	assert.Equal(t, ErrCodeNotFound, err.Code)
	assert.Equal(t, "Gift", err.Details["resource"])
	assert.Equal(t, "Gift with id=5 not found", err.Message)
	assert.True(t, err.IsNotFound())
}

func TestNewAlreadyExistsError(t *testing.T) {
	err := NewAlreadyExistsError("tg_username")

	assert.ErrorIs(t, err, Reason(ErrCodeAlreadyExists, "tg_username"))
	assert.Equal(t, "tg_username", err.Details["field"])
	assert.True(t, err.IsValidation())
}

func TestAuthReasonOf(t *testing.T) {
	reason, ok := AuthReasonOf(fmt.Errorf("wrapped: %w", NewAuthError(AuthInvalidScheme)))
	assert.True(t, ok)
	assert.Equal(t, AuthInvalidScheme, reason)

	_, ok = AuthReasonOf(NewNotFoundError("User", 1))
	assert.False(t, ok)

	_, ok = AuthReasonOf(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, ErrCodeConflict, CodeOf(NewConflictError("gift", ReasonAlreadyReserved, "taken")))
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("plain")))
}
