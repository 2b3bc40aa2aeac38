package report

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/report"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)

type testEnv struct {
	svc               report.ReportService
	records           attendance.RecordRepository
	teacherAttendance attendance.TeacherAttendanceRepository
	teacher           user.User
	classA            class.Class
	classB            class.Class
	students          []student.Student
}

func setup(t *testing.T) testEnv {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	classes := memory.NewClassRepository(store)
	students := memory.NewStudentRepository(store)
	records := memory.NewRecordRepository(store)
	teacherAttendance := memory.NewTeacherAttendanceRepository(store)

	tch, err := users.Create(ctx, user.User{Email: "t@school.com", FirstName: "Sara", LastName: "Malik", Role: user.RoleTeacher})
	require.NoError(t, err)

	a, err := classes.Create(ctx, class.Class{Name: "Grade 2", GradeLevel: "Grade 2", TeacherID: &tch.ID})
	require.NoError(t, err)
	b, err := classes.Create(ctx, class.Class{Name: "Grade 10", GradeLevel: "Grade 10"})
	require.NoError(t, err)

	var roster []student.Student
	for i, name := range []string{"Zara", "Ali", "Maryam"} {
		s, err := students.Create(ctx, student.Student{FirstName: name, LastName: "Khan", RollNumber: string(rune('1' + i)), ClassID: a.ID})
		require.NoError(t, err)
		roster = append(roster, s)
	}

	return testEnv{
		svc:               NewReportService(clock.Fixed{At: now}, records, teacherAttendance, classes, students, users),
		records:           records,
		teacherAttendance: teacherAttendance,
		teacher:           tch,
		classA:            a,
		classB:            b,
		students:          roster,
	}
}

func (e testEnv) mark(t *testing.T, s student.Student, classID string, status attendance.Status, date time.Time) {
	t.Helper()
	require.NoError(t, e.records.Upsert(context.Background(), attendance.Record{
		StudentID:  s.ID,
		ClassID:    classID,
		Status:     status,
		RecordedBy: e.teacher.ID,
		RecordedAt: now,
		Date:       date,
	}))
}

func TestReportService_ClassSummary_TwoDays(t *testing.T) {
	env := setup(t)
	d1 := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

	for _, s := range env.students {
		env.mark(t, s, env.classA.ID, attendance.StatusPresent, d1)
	}
	env.mark(t, env.students[0], env.classA.ID, attendance.StatusAbsent, d2)
	env.mark(t, env.students[1], env.classA.ID, attendance.StatusPresent, d2)
	env.mark(t, env.students[2], env.classA.ID, attendance.StatusPresent, d2)

	resp, err := env.svc.ClassSummary(context.Background(), env.classA.ID, report.PeriodQuery{
		StartDate: "2024-03-12",
		EndDate:   "2024-03-13",
	})
	require.NoError(t, err)

	assert.Equal(t, report.Counts{Total: 6, Present: 5, Absent: 1}, resp.Summary)
	assert.Equal(t, "83.3", resp.AttendanceRate)
	require.Len(t, resp.Students, 3)
	assert.Equal(t, "Ali Khan", resp.Students[0].Name)
	assert.Equal(t, "Zara Khan", resp.Students[2].Name)
	assert.Equal(t, report.Counts{Total: 2, Present: 1, Absent: 1}, resp.Students[2].Counts)
	require.Len(t, resp.Records, 6)
	assert.Equal(t, "2024-03-13", resp.Records[0].Date)
	assert.Equal(t, "ABSENT", resp.Records[2].Status)
}

func TestReportService_ClassSummary_Empty(t *testing.T) {
	env := setup(t)

	resp, err := env.svc.ClassSummary(context.Background(), env.classB.ID, report.PeriodQuery{Period: "weekly"})
	require.NoError(t, err)

	assert.Equal(t, report.Counts{}, resp.Summary)
	assert.Equal(t, "0.0", resp.AttendanceRate)
	assert.Empty(t, resp.Students)
	assert.Equal(t, period.Weekly, resp.Period)
	assert.Equal(t, "2024-03-05", resp.StartDate)
}

func TestReportService_ClassSummary_MalformedPeriodFallsBack(t *testing.T) {
	env := setup(t)

	resp, err := env.svc.ClassSummary(context.Background(), env.classA.ID, report.PeriodQuery{Period: "fortnight"})
	require.NoError(t, err)
	assert.Equal(t, period.Daily, resp.Period)
	assert.Equal(t, "2024-03-13", resp.StartDate)
}

func TestReportService_ClassSummary_Errors(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	_, err := env.svc.ClassSummary(ctx, "missing", report.PeriodQuery{})
	assert.ErrorIs(t, err, class.ErrClassNotFound)

	_, err = env.svc.ClassSummary(ctx, env.classA.ID, report.PeriodQuery{StartDate: "13-03-2024"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	_, err = env.svc.ClassSummary(ctx, env.classA.ID, report.PeriodQuery{StartDate: "2024-03-13", EndDate: "2024-03-01"})
	assert.ErrorAs(t, err, &verrs)
}

func TestReportService_SchoolSummary_GroupsByClass(t *testing.T) {
	env := setup(t)
	today := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

	env.mark(t, env.students[0], env.classA.ID, attendance.StatusLate, today)
	env.mark(t, env.students[1], env.classB.ID, attendance.StatusPresent, today)

	resp, err := env.svc.SchoolSummary(context.Background(), report.PeriodQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.Summary.Total)
	require.Len(t, resp.Classes, 2)
	assert.Equal(t, "Grade 2", resp.Classes[0].Name)
	assert.Equal(t, "Grade 10", resp.Classes[1].Name)
	assert.Equal(t, 1, resp.Classes[0].Late)
}

func TestReportService_StudentDaily(t *testing.T) {
	env := setup(t)

	env.mark(t, env.students[2], env.classA.ID, attendance.StatusLeave, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC))
	env.mark(t, env.students[2], env.classA.ID, attendance.StatusPresent, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))
	env.mark(t, env.students[1], env.classA.ID, attendance.StatusPresent, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC))

	resp, err := env.svc.StudentDaily(context.Background(), report.PeriodQuery{ClassID: env.classA.ID})
	require.NoError(t, err)

	assert.Equal(t, period.Weekly, resp.Period)
	require.Len(t, resp.Students, 2)
	assert.Equal(t, "Ali Khan", resp.Students[0].Name)
	maryam := resp.Students[1]
	assert.Equal(t, 2, maryam.Summary.Total)
	assert.Equal(t, []report.DailyRecord{{Date: "2024-03-12", Status: "PRESENT"}, {Date: "2024-03-11", Status: "LEAVE"}}, maryam.DailyRecords)

	_, err = env.svc.StudentDaily(context.Background(), report.PeriodQuery{ClassID: "missing"})
	assert.ErrorIs(t, err, class.ErrClassNotFound)
}

func TestReportService_TeacherDetail(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	_, err := env.teacherAttendance.Upsert(ctx, attendance.TeacherAttendance{TeacherID: env.teacher.ID, Status: attendance.StatusPresent, Date: now})
	require.NoError(t, err)
	_, err = env.teacherAttendance.Upsert(ctx, attendance.TeacherAttendance{TeacherID: env.teacher.ID, Status: attendance.StatusLate, Date: now.AddDate(0, 0, -1)})
	require.NoError(t, err)

	resp, err := env.svc.TeacherDetail(ctx, env.teacher.ID, report.PeriodQuery{})
	require.NoError(t, err)

	assert.Equal(t, period.Monthly, resp.Period)
	assert.Equal(t, "Sara", resp.Teacher.FirstName)
	require.Len(t, resp.Classes, 1)
	assert.Equal(t, 3, resp.Classes[0].StudentCount)
	assert.Equal(t, report.Counts{Total: 2, Present: 1, Late: 1}, resp.Attendance)
	assert.Equal(t, "50.0", resp.AttendanceRate)

	_, err = env.svc.TeacherDetail(ctx, "missing", report.PeriodQuery{})
	assert.ErrorIs(t, err, teacher.ErrTeacherNotFound)
}

func TestReportService_ClassAttendanceLog(t *testing.T) {
	env := setup(t)
	d1 := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)

	env.mark(t, env.students[0], env.classA.ID, attendance.StatusAbsent, d1)
	env.mark(t, env.students[1], env.classA.ID, attendance.StatusPresent, d1)
	env.mark(t, env.students[0], env.classA.ID, attendance.StatusPresent, d2)

	logs, err := env.svc.ClassAttendanceLog(context.Background(), env.classA.ID)
	require.NoError(t, err)

	require.Len(t, logs, 2)
	assert.Equal(t, "2024-03-12", logs[0].Date)
	assert.Equal(t, attendance.StatusCounts{Present: 1, Absent: 1}, logs[1].StatusCounts)
}

func TestReportService_StudentMonthly(t *testing.T) {
	env := setup(t)
	ctx := context.Background()

	env.mark(t, env.students[0], env.classA.ID, attendance.StatusAbsent, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	env.mark(t, env.students[0], env.classA.ID, attendance.StatusPresent, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	env.mark(t, env.students[0], env.classA.ID, attendance.StatusPresent, time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC))

	resp, err := env.svc.StudentMonthly(ctx, report.StudentMonthlyQuery{TeacherID: env.teacher.ID, StudentID: env.students[0].ID})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, "2024-03-01", resp.StartDate)
	assert.Equal(t, "2024-03-31", resp.EndDate)
	require.Len(t, resp.Records, 2)
	assert.Equal(t, "2024-03-04", resp.Records[0].Date)
	assert.Equal(t, "50.0", resp.AttendanceRate)

	feb, err := env.svc.StudentMonthly(ctx, report.StudentMonthlyQuery{TeacherID: env.teacher.ID, StudentID: env.students[0].ID, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", feb.EndDate)
	assert.Len(t, feb.Records, 1)

	_, err = env.svc.StudentMonthly(ctx, report.StudentMonthlyQuery{TeacherID: "someone-else", StudentID: env.students[0].ID})
	assert.ErrorIs(t, err, student.ErrStudentNotFound)
}
