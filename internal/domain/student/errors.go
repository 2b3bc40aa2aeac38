package student

import "errors"

var (
	ErrStudentNotFound  = errors.New("student not found")
	ErrRollNumberExists = errors.New("roll number already used in this class")
)
