package user

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrAdminAccessRequired   = errors.New("admin access required")
	ErrTeacherAccessRequired = errors.New("teacher access required")
)
