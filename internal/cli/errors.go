package cli

import (
	"context"
	"errors"
	"fmt"

	"gridstack/internal/runner"
	"gridstack/internal/stack"
)

// Category groups composition failures into the three outcomes users act on
// differently.
type Category string

const (
	CategoryNothingToDo  Category = "nothing to do"
	CategoryIncompatible Category = "incompatible layout"
	CategoryExecution    Category = "execution failure"
)

// CategoryError tags err with a user-facing category.
type CategoryError struct {
	Category Category
	Err      error
}

func (e *CategoryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Category, e.Err)
}

func (e *CategoryError) Unwrap() error { return e.Err }

func categorize(category Category, err error) error {
	if err == nil {
		return nil
	}
	return &CategoryError{Category: category, Err: err}
}

// categoryOf reports the category carried by err. Untagged stack errors are
// classified by their sentinel.
func categoryOf(err error) Category {
	var ce *CategoryError
	if errors.As(err, &ce) {
		return ce.Category
	}
	switch {
	case errors.Is(err, stack.ErrNothingToDo):
		return CategoryNothingToDo
	case errors.Is(err, stack.ErrWidthMismatch),
		errors.Is(err, stack.ErrHeightMismatch),
		errors.Is(err, stack.ErrDimensionMismatch),
		errors.Is(err, stack.ErrUnknownMetadata),
		errors.Is(err, stack.ErrTrimPastEnd),
		errors.Is(err, stack.ErrEmptyTrim):
		return CategoryIncompatible
	}
	return ""
}

// probeFailureCategory separates clips ffprobe could not measure from ffprobe
// itself failing to run.
func probeFailureCategory(err error) Category {
	var runErr *runner.Error
	if errors.As(err, &runErr) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) {
		return CategoryExecution
	}
	return CategoryIncompatible
}

// hint returns follow-up advice for an incompatible layout.
func hint(err error) string {
	switch {
	case errors.Is(err, stack.ErrWidthMismatch):
		return "clips stacked top to bottom must share a width; scale them first"
	case errors.Is(err, stack.ErrHeightMismatch):
		return "clips stacked side by side must share a height; scale them first"
	case errors.Is(err, stack.ErrDimensionMismatch):
		return "grid cells must all have the same width and height"
	case errors.Is(err, stack.ErrUnknownMetadata):
		return "every clip needs a readable video stream"
	case errors.Is(err, stack.ErrTrimPastEnd):
		return "move the slider end inside the clip's duration"
	case errors.Is(err, stack.ErrEmptyTrim):
		return "slider start and end must differ by at least one second"
	}
	return ""
}
