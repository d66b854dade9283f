package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrRateNotFound       = errors.New("rate not found")
	ErrUpstreamTimeout    = errors.New("upstream timeout")
	ErrUpstreamRequest    = errors.New("upstream request failed")
	ErrUpstreamUnexpected = errors.New("upstream unexpected error")
	ErrSink               = errors.New("failed to write rows")
	ErrNoDataFound        = errors.New("no data found")

	ErrInvalidDate   = fmt.Errorf("%w: invalid date format", ErrInvalidInput)
	ErrInvalidPeriod = fmt.Errorf("%w: start date is later than end date", ErrInvalidInput)
)

// UpstreamError tags a provider failure with its kind (one of the
// ErrUpstream* sentinels) while keeping the underlying cause.
type UpstreamError struct {
	Kind error
	Err  error
}

func NewUpstreamError(kind, err error) *UpstreamError {
	return &UpstreamError{Kind: kind, Err: err}
}

func (e *UpstreamError) Error() string {
	return e.Kind.Error() + ": " + e.Err.Error()
}

func (e *UpstreamError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
