package drawing

import "errors"

var (
	// ErrDrawingNotFound indicates the drawing doesn't exist.
	ErrDrawingNotFound = errors.New("drawing not found")
	// ErrInvalidInput indicates invalid input for drawing operations.
	ErrInvalidInput = errors.New("invalid drawing input")
)
