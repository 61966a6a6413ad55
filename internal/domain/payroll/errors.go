package payroll

import (
	"context"
	"errors"
)

var (
	ErrInvalidPeriod     = errors.New("invalid payroll period")
	ErrInvalidRate       = errors.New("invalid rate configuration")
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrInvalidTimeFormat = errors.New("invalid time format, expected HH:MM")
)

// ErrorKind classifies a calculation failure for callers that report it
// rather than branch on it.
type ErrorKind string

const (
	ErrorKindInvalidPeriod     ErrorKind = "INVALID_PERIOD"
	ErrorKindInvalidRate       ErrorKind = "INVALID_RATE"
	ErrorKindEmployeeNotFound  ErrorKind = "EMPLOYEE_NOT_FOUND"
	ErrorKindInvalidTimeFormat ErrorKind = "INVALID_TIME_FORMAT"
	ErrorKindTimeout           ErrorKind = "TIMEOUT"
	ErrorKindCanceled          ErrorKind = "CANCELED"
	ErrorKindFetchFailed       ErrorKind = "FETCH_FAILED"
)

// Kind maps err to its ErrorKind. Anything not raised by the engine itself
// is a collaborator failure.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidPeriod):
		return ErrorKindInvalidPeriod
	case errors.Is(err, ErrInvalidRate):
		return ErrorKindInvalidRate
	case errors.Is(err, ErrEmployeeNotFound):
		return ErrorKindEmployeeNotFound
	case errors.Is(err, ErrInvalidTimeFormat):
		return ErrorKindInvalidTimeFormat
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorKindTimeout
	case errors.Is(err, context.Canceled):
		return ErrorKindCanceled
	default:
		return ErrorKindFetchFailed
	}
}
