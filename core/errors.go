package core

import (
	"errors"
	"fmt"
)

var (
	ErrNoReferenceData = errors.New("no sector data for reference ticker")
	ErrEmptyVector     = errors.New("both sector vectors are empty")
	ErrNoData          = errors.New("no sector data")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrToolNotFound    = errors.New("tool not found")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrTimeout         = errors.New("operation timed out")
)

// MatchError tags an error with the operation and ticker that produced it.
type MatchError struct {
	Op     string
	Ticker string
	Err    error
}

func (e *MatchError) Error() string {
	if e.Ticker != "" {
		return fmt.Sprintf("%s [ticker=%s]: %v", e.Op, e.Ticker, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}

func NewMatchError(op, ticker string, err error) *MatchError {
	return &MatchError{Op: op, Ticker: ticker, Err: err}
}
