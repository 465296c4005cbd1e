package apperrors

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnsafeSQL     = errors.New("unsafe SQL statement")
	ErrEmptyResponse = errors.New("empty completion response")
)
