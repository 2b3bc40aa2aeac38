package user

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"   // Manages classes, students and teachers
	RoleTeacher Role = "TEACHER" // Marks attendance for assigned classes
)

// ParseRole maps a stored or claimed role string to a Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleTeacher:
		return RoleTeacher, true
	default:
		return "", false
	}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name with a single space.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsAdmin checks if user is a school administrator
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsTeacher checks if user is a teacher
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}
