package attendance

import (
	"context"
	"time"
)

// RecordFilter scopes a record query. Empty ClassIDs and StudentIDs mean no restriction.
// From and To are calendar days, both inclusive.
type RecordFilter struct {
	ClassIDs   []string
	StudentIDs []string
	RecordedBy string
	From       time.Time
	To         time.Time
}

// RecordRepository defines data access methods for submitted attendance.
type RecordRepository interface {
	// Upsert inserts a record or, when (student_id, date) exists, overwrites
	// status, recorded_by and recorded_at. class_id keeps its original snapshot.
	Upsert(ctx context.Context, record Record) error

	// List returns matching records ordered by date descending, then student first and last name.
	List(ctx context.Context, filter RecordFilter) ([]RecordDetail, error)

	// ListByClass returns every record of a class regardless of date, newest first.
	ListByClass(ctx context.Context, classID string) ([]RecordDetail, error)
}

// DraftRepository defines data access methods for unsubmitted attendance.
type DraftRepository interface {
	DeleteForDay(ctx context.Context, teacherID, classID string, date time.Time) error
	CreateMany(ctx context.Context, drafts []Draft) error
	ListForDay(ctx context.Context, teacherID, classID string, date time.Time) ([]Draft, error)

	// DeleteBefore removes drafts for any day earlier than date and reports how many went.
	DeleteBefore(ctx context.Context, date time.Time) (int64, error)
}

// TeacherAttendanceRepository defines data access methods for teachers' own attendance.
type TeacherAttendanceRepository interface {
	// Upsert inserts or overwrites the status for (teacher_id, date).
	Upsert(ctx context.Context, a TeacherAttendance) (TeacherAttendance, error)
	ListByTeacher(ctx context.Context, teacherID string, from, to time.Time) ([]TeacherAttendance, error)
}
