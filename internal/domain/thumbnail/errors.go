package thumbnail

import (
	"errors"
	"fmt"
)

var (
	ErrParse        = errors.New("pdf parse failed")
	ErrRender       = errors.New("pdf render failed")
	ErrInvalidScale = errors.New("scale must be positive")
)

// ParseError reports a document that is not a readable PDF or has no pages.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrParse, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrParse, e.Reason)
}

func (e *ParseError) Unwrap() error        { return e.Err }
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// RenderError reports a failure to rasterize or encode the first page.
type RenderError struct {
	Reason string
	Err    error
}

func (e *RenderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrRender, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", ErrRender, e.Reason)
}

func (e *RenderError) Unwrap() error        { return e.Err }
func (e *RenderError) Is(target error) bool { return target == ErrRender }
