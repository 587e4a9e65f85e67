package metadata

import (
	"errors"
	"fmt"

	"github.com/roach88/tokenmeta/internal/keycodec"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeKeyExists indicates AddValues on a key that already holds values.
	ErrCodeKeyExists ErrorCode = "KEY_EXISTS"
)

// Error is a store failure. The store is unchanged when one is returned.
type Error struct {
	Code    ErrorCode
	Message string
	Key     keycodec.Key
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s (key=%s)", e.Code, e.Message, e.Key)
}

// NewKeyExistsError reports a second definition of key.
func NewKeyExistsError(key keycodec.Key) *Error {
	return &Error{
		Code:    ErrCodeKeyExists,
		Message: "key already exists",
		Key:     key,
	}
}

// IsKeyExists reports whether err is, or wraps, a KEY_EXISTS error.
func IsKeyExists(err error) bool {
	var me *Error
	if errors.As(err, &me) {
		return me.Code == ErrCodeKeyExists
	}
	return false
}
