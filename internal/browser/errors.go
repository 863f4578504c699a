package browser

import "errors"

var (
	ErrListingFailed      = errors.New("listing failed")
	ErrObjectNotFound     = errors.New("object not found")
	ErrInvalidName        = errors.New("invalid name")
	ErrUploadFailed       = errors.New("upload failed")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrTooLarge           = errors.New("object too large")
)

// wrapError ties a taxonomy sentinel to the call that failed and its cause.
// errors.Is matches both the sentinel and the cause.
type wrapError struct {
	underlying error
	msg        string
	cause      error
}

var _ error = (*wrapError)(nil)

func wrap(underlying error, msg string, cause error) error {
	return &wrapError{underlying: underlying, msg: msg, cause: cause}
}

func (err *wrapError) Error() string {
	message := err.underlying.Error() + ": " + err.msg
	if err.cause != nil {
		message += ": " + err.cause.Error()
	}
	return message
}

func (err *wrapError) Unwrap() []error {
	if err.cause == nil {
		return []error{err.underlying}
	}
	return []error{err.underlying, err.cause}
}
