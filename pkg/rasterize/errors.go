package rasterize

import "errors"

var (
	ErrInvalidPDF    = errors.New("invalid pdf")
	ErrStage         = errors.New("failed to stage pdf")
	ErrOpen          = errors.New("failed to open pdf renderer")
	ErrRender        = errors.New("page render failed")
	ErrInvalidConfig = errors.New("invalid rasterize config")
)
