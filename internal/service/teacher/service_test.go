package teacher

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/password"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

type deps struct {
	store             *memory.Store
	svc               teacher.TeacherService
	users             user.UserRepository
	classes           class.ClassRepository
	students          student.StudentRepository
	teacherAttendance attendance.TeacherAttendanceRepository
}

func newDeps() deps {
	store := memory.NewStore()
	d := deps{
		store:             store,
		users:             memory.NewUserRepository(store),
		classes:           memory.NewClassRepository(store),
		students:          memory.NewStudentRepository(store),
		teacherAttendance: memory.NewTeacherAttendanceRepository(store),
	}
	d.svc = NewTeacherService(store, clock.Fixed{At: now}, d.users, d.classes, d.students, d.teacherAttendance)
	return d
}

func (d deps) class(t *testing.T, grade string) class.Class {
	t.Helper()
	c, err := d.classes.Create(context.Background(), class.Class{Name: grade, GradeLevel: grade})
	require.NoError(t, err)
	return c
}

func createReq(email string) teacher.CreateTeacherRequest {
	return teacher.CreateTeacherRequest{FirstName: "Sara", LastName: "Malik", Email: email, Password: "secret1"}
}

func TestTeacherService_Create(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	c := d.class(t, "Grade 3")

	req := createReq(" Sara@School.com ")
	req.ClassID = &c.ID
	resp, err := d.svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "sara@school.com", resp.Email)
	require.Len(t, resp.AssignedClasses, 1)
	assert.Equal(t, c.ID, resp.AssignedClasses[0].ID)

	stored, err := d.users.GetByID(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleTeacher, stored.Role)
	assert.True(t, password.Matches(stored.PasswordHash, "secret1"))
}

func TestTeacherService_Create_Conflicts(t *testing.T) {
	d := newDeps()
	ctx := context.Background()

	_, err := d.svc.Create(ctx, createReq("sara@school.com"))
	require.NoError(t, err)

	_, err = d.svc.Create(ctx, createReq("SARA@school.com"))
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)

	req := createReq("other@school.com")
	req.ClassID = strPtr("missing")
	_, err = d.svc.Create(ctx, req)
	assert.ErrorIs(t, err, class.ErrClassNotFound)
	assert.Equal(t, 1, d.store.Counts().Users)

	_, err = d.svc.Create(ctx, teacher.CreateTeacherRequest{Email: "bad"})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestTeacherService_Update_ReassignsClass(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	a := d.class(t, "Grade 3")
	b := d.class(t, "Grade 4")

	req := createReq("sara@school.com")
	req.ClassID = &a.ID
	created, err := d.svc.Create(ctx, req)
	require.NoError(t, err)
	require.NoError(t, d.classes.AssignTeacher(ctx, b.ID, &created.ID))

	resp, err := d.svc.Update(ctx, teacher.UpdateTeacherRequest{ID: created.ID, LastName: strPtr("Ahmed"), ClassID: &b.ID})
	require.NoError(t, err)
	assert.Equal(t, "Ahmed", resp.LastName)
	require.Len(t, resp.AssignedClasses, 1)
	assert.Equal(t, b.ID, resp.AssignedClasses[0].ID)

	stored, err := d.users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, password.Matches(stored.PasswordHash, "secret1"), "password kept when not supplied")

	resp, err = d.svc.Update(ctx, teacher.UpdateTeacherRequest{ID: created.ID, ClassID: strPtr(""), Password: strPtr("changed1")})
	require.NoError(t, err)
	assert.Empty(t, resp.AssignedClasses)

	stored, err = d.users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, password.Matches(stored.PasswordHash, "changed1"))
}

func TestTeacherService_Update_RollsBackOnMissingClass(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	a := d.class(t, "Grade 3")

	req := createReq("sara@school.com")
	req.ClassID = &a.ID
	created, err := d.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = d.svc.Update(ctx, teacher.UpdateTeacherRequest{
		ID:        created.ID,
		FirstName: strPtr("Zed"),
		Password:  strPtr("changed1"),
		ClassID:   strPtr("missing"),
	})
	assert.ErrorIs(t, err, class.ErrClassNotFound)

	stored, err := d.users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sara", stored.FirstName)
	assert.True(t, password.Matches(stored.PasswordHash, "secret1"), "password change rolled back")
	got, err := d.classes.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.AssignedTo(created.ID))
}

func TestTeacherService_Update_Errors(t *testing.T) {
	d := newDeps()
	ctx := context.Background()

	first, err := d.svc.Create(ctx, createReq("a@school.com"))
	require.NoError(t, err)
	_, err = d.svc.Create(ctx, createReq("b@school.com"))
	require.NoError(t, err)

	_, err = d.svc.Update(ctx, teacher.UpdateTeacherRequest{ID: first.ID, Email: strPtr("B@school.com")})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)

	_, err = d.svc.Update(ctx, teacher.UpdateTeacherRequest{ID: "missing"})
	assert.ErrorIs(t, err, teacher.ErrTeacherNotFound)
}

func TestTeacherService_List(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	a := d.class(t, "Grade 3")

	req := createReq("z@school.com")
	req.LastName = "Zahid"
	req.ClassID = &a.ID
	_, err := d.svc.Create(ctx, req)
	require.NoError(t, err)
	req = createReq("a@school.com")
	req.LastName = "Abbas"
	_, err = d.svc.Create(ctx, req)
	require.NoError(t, err)

	list, err := d.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Abbas", list[0].LastName)
	assert.NotNil(t, list[0].AssignedClasses)
	assert.Empty(t, list[0].AssignedClasses)
	require.Len(t, list[1].AssignedClasses, 1)
	assert.Equal(t, "Grade 3", list[1].AssignedClasses[0].Name)
}

func TestTeacherService_RecordAttendanceAndProfile(t *testing.T) {
	d := newDeps()
	ctx := context.Background()

	created, err := d.svc.Create(ctx, createReq("sara@school.com"))
	require.NoError(t, err)

	profile, err := d.svc.Profile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, profile.AttendanceSummary.AttendanceRate)
	assert.Equal(t, "Sara Malik", profile.Teacher.Name)

	for _, in := range []struct{ date, status string }{
		{"2024-03-11", "present"},
		{"2024-03-12", "late"},
		{"2024-03-13", "absent"},
		{"2024-03-13", "present"},
		{"2024-01-02", "absent"},
	} {
		_, err := d.svc.RecordAttendance(ctx, teacher.RecordAttendanceRequest{TeacherID: created.ID, Date: in.date, Status: in.status})
		require.NoError(t, err)
	}

	profile, err = d.svc.Profile(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, teacher.ProfileAttendance{Total: 3, Present: 2, Late: 1, AttendanceRate: 67}, profile.AttendanceSummary)
}

func TestTeacherService_RecordAttendance_Errors(t *testing.T) {
	d := newDeps()
	ctx := context.Background()

	_, err := d.svc.RecordAttendance(ctx, teacher.RecordAttendanceRequest{TeacherID: "x", Date: "2024-03-13", Status: "sick"})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "status", verrs[0].Field)

	_, err = d.svc.RecordAttendance(ctx, teacher.RecordAttendanceRequest{TeacherID: "missing", Date: "2024-03-13", Status: "present"})
	assert.ErrorIs(t, err, teacher.ErrTeacherNotFound)
	assert.Zero(t, d.store.Counts().TeacherAttendance)
}

func TestTeacherService_ClassStudents(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	a := d.class(t, "Grade 3")
	b := d.class(t, "Grade 4")

	req := createReq("sara@school.com")
	req.ClassID = &a.ID
	created, err := d.svc.Create(ctx, req)
	require.NoError(t, err)

	for _, name := range []string{"Zain", "Amna"} {
		_, err := d.students.Create(ctx, student.Student{FirstName: name, LastName: "R", RollNumber: name, ClassID: a.ID})
		require.NoError(t, err)
	}

	roster, err := d.svc.ClassStudents(ctx, created.ID, a.ID)
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.Equal(t, "Amna", roster[0].FirstName)
	assert.Equal(t, a.ID, roster[0].ClassID)

	_, err = d.svc.ClassStudents(ctx, created.ID, b.ID)
	assert.ErrorIs(t, err, class.ErrClassNotFound)
}
