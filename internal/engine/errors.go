package engine

import (
	"errors"
	"fmt"
)

// Error is returned by Generate for the few conditions no fallback can
// recover from. Unrecognized phrasing is never an Error; it is reported as
// diagnostics on the Result.
type Error struct {
	Code ErrorCode

	Message string

	// RequestID identifies the failed request.
	RequestID string

	// Err is the underlying cause, if any.
	Err error
}

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeEmptySchema: the schema has no objects to fall back to.
	ErrCodeEmptySchema ErrorCode = "EMPTY_SCHEMA"

	// ErrCodeRender: neither the built tree nor the default-fields
	// fallback could be rendered.
	ErrCodeRender ErrorCode = "RENDER_FAILED"
)

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.RequestID != "" {
		msg += fmt.Sprintf(" (request=%s)", e.RequestID)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsEmptySchema reports whether err is an ErrCodeEmptySchema error.
func IsEmptySchema(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeEmptySchema
}

// IsRenderError reports whether err is an ErrCodeRender error.
func IsRenderError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeRender
}
