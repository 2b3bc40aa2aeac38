package postgresql

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const someID = "0190f5a2-7c1e-7b3a-9d4e-2f6a8b1c3d5e"

func TestValidIDs(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want bool
	}{
		{"none", nil, true},
		{"uuid", []string{someID}, true},
		{"garbage", []string{"abc"}, false},
		{"empty", []string{""}, false},
		{"one bad among good", []string{someID, "1"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validIDs(tt.ids...))
		})
	}

	assert.Equal(t, []string{someID}, uuidsOnly([]string{"abc", someID, ""}))
}

// Malformed ids must resolve without a round trip, so a nil pool is never touched.
func TestRepositories_MalformedIDsNeverReachPostgres(t *testing.T) {
	ctx := context.Background()
	classes := NewClassRepository(nil)
	students := NewStudentRepository(nil)
	users := NewUserRepository(nil)
	records := NewRecordRepository(nil)
	drafts := NewDraftRepository(nil)
	teacherAttendance := NewTeacherAttendanceRepository(nil)

	_, err := classes.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, class.ErrClassNotFound)
	_, err = classes.GetStats(ctx, "abc")
	assert.ErrorIs(t, err, class.ErrClassNotFound)
	assert.ErrorIs(t, classes.Delete(ctx, "abc"), class.ErrClassNotFound)
	assert.ErrorIs(t, classes.AssignTeacher(ctx, "abc", nil), class.ErrClassNotFound)
	bad := "abc"
	assert.ErrorIs(t, classes.Update(ctx, class.Class{ID: someID, TeacherID: &bad}), user.ErrUserNotFound)
	byTeacher, err := classes.ListByTeacher(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, byTeacher)

	_, err = students.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
	_, err = students.Create(ctx, student.Student{FirstName: "A", LastName: "B", RollNumber: "1", ClassID: "abc"})
	assert.ErrorIs(t, err, class.ErrClassNotFound)
	assert.ErrorIs(t, students.Delete(ctx, "abc"), student.ErrStudentNotFound)
	roster, err := students.ListByClasses(ctx, []string{"abc"})
	require.NoError(t, err)
	assert.Empty(t, roster)
	exists, err := students.ExistsByRollNumber(ctx, "abc", "1", "")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = users.GetByID(ctx, "abc")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	assert.ErrorIs(t, users.UpdatePassword(ctx, "abc", "hash"), user.ErrUserNotFound)

	err = records.Upsert(ctx, attendance.Record{StudentID: "abc", ClassID: someID, RecordedBy: someID, Status: attendance.StatusPresent})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
	list, err := records.List(ctx, attendance.RecordFilter{ClassIDs: []string{"abc"}})
	require.NoError(t, err)
	assert.Empty(t, list)
	list, err = records.ListByClass(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, list)

	pending, err := drafts.ListForDay(ctx, someID, "abc", time.Now())
	require.NoError(t, err)
	assert.Empty(t, pending)
	assert.NoError(t, drafts.DeleteForDay(ctx, someID, "abc", time.Now()))

	_, err = teacherAttendance.Upsert(ctx, attendance.TeacherAttendance{TeacherID: "abc", Status: attendance.StatusPresent, Date: time.Now()})
	assert.ErrorIs(t, err, user.ErrUserNotFound)
	marks, err := teacherAttendance.ListByTeacher(ctx, "abc", time.Now(), time.Now())
	require.NoError(t, err)
	assert.Empty(t, marks)
}
