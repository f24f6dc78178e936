package content

import "errors"

var (
	ErrNotFound     = errors.New("content: not found")
	ErrInvalidInput = errors.New("content: invalid input")
	ErrQuery        = errors.New("content: query failed")
)
