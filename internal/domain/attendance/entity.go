package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
)

// EditWindowDays is how many calendar days after the fact a submitted day may still be corrected.
const EditWindowDays = 7

// Status is the stored attendance status.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusLeave   Status = "LEAVE"
)

// Statuses lists every stored status in display order.
var Statuses = []Status{StatusPresent, StatusAbsent, StatusLate, StatusLeave}

var clientToStatus = map[string]Status{
	"present": StatusPresent,
	"absent":  StatusAbsent,
	"late":    StatusLate,
	"leave":   StatusLeave,
}

// ParseClientStatus maps a client-facing status ("present", "absent", ...) to its stored form.
// Matching ignores case and surrounding space.
func ParseClientStatus(raw string) (Status, error) {
	s, ok := clientToStatus[strings.ToLower(strings.TrimSpace(raw))]
	if !ok {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// Client returns the lowercase form used in API payloads.
func (s Status) Client() string {
	switch s {
	case StatusPresent:
		return "present"
	case StatusAbsent:
		return "absent"
	case StatusLate:
		return "late"
	case StatusLeave:
		return "leave"
	default:
		return strings.ToLower(string(s))
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusLeave:
		return true
	}
	return false
}

// Record is a submitted attendance mark, unique per (StudentID, Date).
// ClassID is the student's class at the time of recording.
type Record struct {
	ID         string
	StudentID  string
	ClassID    string
	Status     Status
	RecordedBy string
	RecordedAt time.Time
	Date       time.Time
}

// RecordDetail is a Record joined with the names reports display.
type RecordDetail struct {
	Record
	StudentFirstName string
	StudentLastName  string
	ClassName        string
}

func (r RecordDetail) StudentName() string {
	return r.StudentFirstName + " " + r.StudentLastName
}

// Draft is an in-progress mark for the current day, unique per (TeacherID, ClassID, StudentID, Date).
type Draft struct {
	ID        string
	TeacherID string
	ClassID   string
	StudentID string
	Status    Status
	Date      time.Time
	UpdatedAt time.Time
}

// TeacherAttendance is a teacher's own presence for a day, unique per (TeacherID, Date).
type TeacherAttendance struct {
	ID        string
	TeacherID string
	Status    Status
	Date      time.Time
}

// Editable reports whether a day's submitted marks may still be corrected on today.
func Editable(date, today time.Time) bool {
	return period.DaysBetween(date, today) <= EditWindowDays
}
