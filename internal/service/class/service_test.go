package class

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type deps struct {
	store    *memory.Store
	svc      class.ClassService
	users    user.UserRepository
	students student.StudentRepository
	records  attendance.RecordRepository
}

func newDeps() deps {
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	return deps{
		store:    store,
		svc:      NewClassService(store, memory.NewClassRepository(store), users),
		users:    users,
		students: memory.NewStudentRepository(store),
		records:  memory.NewRecordRepository(store),
	}
}

func (d deps) teacher(t *testing.T, email string) user.User {
	t.Helper()
	u, err := d.users.Create(context.Background(), user.User{Email: email, FirstName: "Sara", LastName: "Malik", Role: user.RoleTeacher})
	require.NoError(t, err)
	return u
}

func strPtr(s string) *string { return &s }

func TestClassService_Create(t *testing.T) {
	d := newDeps()
	tch := d.teacher(t, "t@school.com")

	resp, err := d.svc.Create(context.Background(), class.CreateClassRequest{GradeLevel: "  Grade 3 ", TeacherID: &tch.ID})
	require.NoError(t, err)

	assert.Equal(t, "Grade 3", resp.GradeLevel)
	assert.Equal(t, "Grade 3", resp.Name)
	require.NotNil(t, resp.TeacherName)
	assert.Equal(t, "Sara Malik", *resp.TeacherName)
	assert.Zero(t, resp.StudentCount)
}

func TestClassService_Create_DuplicateGradeLevel(t *testing.T) {
	d := newDeps()
	ctx := context.Background()

	_, err := d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "Grade 3"})
	require.NoError(t, err)

	_, err = d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "Grade 3"})
	assert.ErrorIs(t, err, class.ErrGradeLevelExists)
	assert.Equal(t, 1, d.store.Counts().Classes)
}

func TestClassService_Create_Invalid(t *testing.T) {
	d := newDeps()
	ctx := context.Background()

	_, err := d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "   "})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	admin, err := d.users.Create(ctx, user.User{Email: "a@school.com", FirstName: "A", LastName: "B", Role: user.RoleAdmin})
	require.NoError(t, err)
	_, err = d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "Grade 1", TeacherID: &admin.ID})
	assert.ErrorIs(t, err, teacher.ErrTeacherNotFound)

	_, err = d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "Grade 1", TeacherID: strPtr("0190f3c4-6a1e-7c2a-9a51-6b7c2e0f1a11")})
	assert.ErrorIs(t, err, teacher.ErrTeacherNotFound)
	assert.Zero(t, d.store.Counts().Classes)
}

func TestClassService_Update(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	tch := d.teacher(t, "t@school.com")

	g3, err := d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "Grade 3", TeacherID: &tch.ID})
	require.NoError(t, err)
	_, err = d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "Grade 4"})
	require.NoError(t, err)

	_, err = d.svc.Update(ctx, class.UpdateClassRequest{ID: g3.ID, GradeLevel: strPtr("Grade 4")})
	assert.ErrorIs(t, err, class.ErrGradeLevelExists)

	resp, err := d.svc.Update(ctx, class.UpdateClassRequest{ID: g3.ID, GradeLevel: strPtr("Grade 5"), TeacherID: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Grade 5", resp.Name)
	assert.Nil(t, resp.TeacherID)
	assert.Nil(t, resp.TeacherName)

	// same grade level as itself is not a conflict
	resp, err = d.svc.Update(ctx, class.UpdateClassRequest{ID: g3.ID, GradeLevel: strPtr("Grade 5"), TeacherID: &tch.ID})
	require.NoError(t, err)
	assert.Equal(t, &tch.ID, resp.TeacherID)

	_, err = d.svc.Update(ctx, class.UpdateClassRequest{ID: "missing", GradeLevel: strPtr("Grade 9")})
	assert.ErrorIs(t, err, class.ErrClassNotFound)
}

func TestClassService_ListAndDelete(t *testing.T) {
	d := newDeps()
	ctx := context.Background()
	tch := d.teacher(t, "t@school.com")

	c, err := d.svc.Create(ctx, class.CreateClassRequest{GradeLevel: "Grade 3"})
	require.NoError(t, err)

	var roster []student.Student
	for _, roll := range []string{"1", "2"} {
		st, err := d.students.Create(ctx, student.Student{FirstName: "S" + roll, LastName: "K", RollNumber: roll, ClassID: c.ID})
		require.NoError(t, err)
		roster = append(roster, st)
	}
	date := time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)
	for i, status := range []attendance.Status{attendance.StatusPresent, attendance.StatusAbsent} {
		require.NoError(t, d.records.Upsert(ctx, attendance.Record{
			StudentID: roster[i].ID, ClassID: c.ID, Status: status, RecordedBy: tch.ID, RecordedAt: date, Date: date,
		}))
	}

	list, err := d.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 2, list[0].StudentCount)
	assert.InDelta(t, 0.5, list[0].AttendanceRate, 1e-9)

	require.NoError(t, d.svc.Delete(ctx, c.ID))
	counts := d.store.Counts()
	assert.Zero(t, counts.Classes)
	assert.Zero(t, counts.Students)
	assert.Zero(t, counts.Records)

	assert.ErrorIs(t, d.svc.Delete(ctx, c.ID), class.ErrClassNotFound)
}
