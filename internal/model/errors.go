package model

import "errors"

var (
	// ErrConfiguration marks an invalid task, subtask or folder capacity shape.
	ErrConfiguration = errors.New("configuration error")
	// ErrValidation marks a roster or description list that does not meet the minimum shape.
	ErrValidation = errors.New("validation error")
	// ErrRender marks a failure inside the spreadsheet sink.
	ErrRender = errors.New("render error")
)
