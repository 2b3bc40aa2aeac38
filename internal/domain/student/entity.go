package student

import "time"

type Student struct {
	ID         string
	FirstName  string
	LastName   string
	RollNumber string
	ClassID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Join
	ClassName  string
	GradeLevel string
}

func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
