package token

import (
	"errors"
	"fmt"

	"github.com/roach88/tokenmeta/internal/metadata"
)

// ErrorCode categorizes collection errors.
type ErrorCode string

const (
	// ErrCodeNotFound indicates an entity that was never minted or was burned.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnauthorized indicates the caller may not perform the mutation.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
)

// Error is a collection-level failure.
type Error struct {
	Code    ErrorCode
	Message string
	Entity  metadata.EntityID
	Caller  string
}

func (e *Error) Error() string {
	if e.Caller != "" {
		return fmt.Sprintf("%s: %s (caller=%s)", e.Code, e.Message, e.Caller)
	}
	return fmt.Sprintf("%s: %s (entity=%d)", e.Code, e.Message, e.Entity)
}

func newNotFoundError(id metadata.EntityID) *Error {
	return &Error{Code: ErrCodeNotFound, Message: "entity does not exist", Entity: id}
}

func newUnauthorizedError(caller string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Message: "caller is not authorized", Caller: caller}
}

// IsNotFound reports whether err is a NOT_FOUND collection error.
func IsNotFound(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Code == ErrCodeNotFound
}

// IsUnauthorized reports whether err is an UNAUTHORIZED collection error.
func IsUnauthorized(err error) bool {
	var te *Error
	return errors.As(err, &te) && te.Code == ErrCodeUnauthorized
}
