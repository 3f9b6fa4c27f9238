package workflow

import "errors"

var (
	ErrMissingState = errors.New("missing workflow state")
	ErrCompose      = errors.New("prompt composition failed")
)
