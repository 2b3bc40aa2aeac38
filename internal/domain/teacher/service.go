package teacher

import (
	"context"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
)

type TeacherService interface {
	// List orders teachers by last name
	List(ctx context.Context) ([]TeacherResponse, error)
	Create(ctx context.Context, req CreateTeacherRequest) (TeacherResponse, error)
	Update(ctx context.Context, req UpdateTeacherRequest) (TeacherResponse, error)

	// RecordAttendance upserts the teacher's own status for a day
	RecordAttendance(ctx context.Context, req RecordAttendanceRequest) (TeacherAttendanceResponse, error)

	// Profile summarises the teacher's last 30 days
	Profile(ctx context.Context, teacherID string) (ProfileResponse, error)

	// ClassStudents lists the roster of one of the teacher's classes
	ClassStudents(ctx context.Context, teacherID, classID string) ([]student.RosterEntry, error)
}
