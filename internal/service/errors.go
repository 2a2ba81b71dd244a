package service

import "errors"

var (
	ErrPatientNotFound    = errors.New("patient not found")
	ErrRecordNotFound     = errors.New("medical record not found")
	ErrFileNotFound       = errors.New("file not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError rejects a request over a missing or invalid field. The
// message is safe to return to the caller verbatim.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationError(msg string) error {
	return &ValidationError{Msg: msg}
}
