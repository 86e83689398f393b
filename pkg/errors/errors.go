package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrEmptyKey      = errors.New("empty key")
	ErrInvalidData   = errors.New("invalid data type")
	ErrEntityExists  = errors.New("entity already exists")
	ErrEmptyClient   = errors.New("empty client name")
	ErrClosed        = errors.New("closed")
	ErrMalformedData = errors.New("malformed data")
)
