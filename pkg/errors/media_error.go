package errors

import "fmt"

// MediaError carries a stable machine code alongside the human message.
// The wrapped Err is for logs only and is never sent to clients.
type MediaError struct {
	Code    string
	Message string
	Err     error
}

func (e *MediaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *MediaError) Unwrap() error {
	return e.Err
}

var (
	ErrValidation = func(msg string) *MediaError {
		return &MediaError{Code: "validation_failed", Message: msg}
	}
	ErrDurationExceeded = func(maxMinutes, gotMinutes int) *MediaError {
		return &MediaError{
			Code:    "duration_exceeded",
			Message: fmt.Sprintf("video duration %d min exceeds the %d min maximum", gotMinutes, maxMinutes),
		}
	}
	ErrAccessDenied = func() *MediaError {
		return &MediaError{Code: "access_denied", Message: "you do not have access to this course"}
	}
	ErrNotFound = func(what string, err error) *MediaError {
		return &MediaError{Code: "not_found", Message: what + " not found", Err: err}
	}
	ErrRangeNotSatisfiable = func(err error) *MediaError {
		return &MediaError{Code: "range_not_satisfiable", Message: "requested range not satisfiable", Err: err}
	}
	ErrTranscodeFailed = func(err error) *MediaError {
		return &MediaError{Code: "transcode_failed", Message: "video transcoding failed", Err: err}
	}
	ErrInternal = func(err error) *MediaError {
		return &MediaError{Code: "internal_error", Message: "internal server error", Err: err}
	}
)
