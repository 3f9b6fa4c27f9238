package manifest

import "errors"

var (
	ErrNotFound     = errors.New("folder not found")
	ErrReadFolder   = errors.New("failed to read folder")
	ErrInvalidImage = errors.New("invalid image")
	ErrNoPages      = errors.New("no pages rendered")
	ErrPanic        = errors.New("file processing panicked")
)
