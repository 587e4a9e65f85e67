package document

import (
	"errors"
	"fmt"
)

// MissingFieldError reports a required field that resolved to empty.
type MissingFieldError struct {
	// Document is "entity" or "contract".
	Document string
	Field    string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s document: missing required field %q", e.Document, e.Field)
}

// IsMissingField reports whether err is, or wraps, a MissingFieldError for
// field. An empty field matches any missing field.
func IsMissingField(err error, field string) bool {
	var mf *MissingFieldError
	if !errors.As(err, &mf) {
		return false
	}
	return field == "" || mf.Field == field
}
