package class

import "errors"

var (
	ErrClassNotFound    = errors.New("class not found")
	ErrGradeLevelExists = errors.New("a class already exists for this grade level")
)
