package class

import "time"

type Class struct {
	ID         string
	Name       string
	GradeLevel string
	TeacherID  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClassStats is a class joined with its teacher's name, roster size and lifetime attendance tallies.
type ClassStats struct {
	Class
	TeacherName  *string
	StudentCount int
	PresentCount int
	RecordCount  int
}

// AttendanceRate is the lifetime fraction of present records, 0 when nothing was recorded.
func (c ClassStats) AttendanceRate() float64 {
	if c.RecordCount == 0 {
		return 0
	}
	return float64(c.PresentCount) / float64(c.RecordCount)
}

// AssignedTo reports whether teacherID is the class's teacher.
func (c Class) AssignedTo(teacherID string) bool {
	return c.TeacherID != nil && *c.TeacherID == teacherID
}
