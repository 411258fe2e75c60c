package services

import "errors"

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error  { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewNotFoundError(msg string) error { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrIncompleteResponse is returned when a submission arrives before
	// every catalog item has a positive score. No state is changed.
	ErrIncompleteResponse = errors.New("not all items rated")
	// ErrSubmissionFailed indicates the outbound sink could not be reached.
	// The response is already persisted locally when this is returned.
	ErrSubmissionFailed = errors.New("submission sink unreachable")
	// ErrEmptyExport is returned when there are no responses to export.
	ErrEmptyExport = errors.New("nothing to export")
)
