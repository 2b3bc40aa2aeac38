package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store    *Store
	users    user.UserRepository
	classes  class.ClassRepository
	students student.StudentRepository
	records  attendance.RecordRepository
	drafts   attendance.DraftRepository
}

func newFixture() fixture {
	s := NewStore()
	return fixture{
		store:    s,
		users:    NewUserRepository(s),
		classes:  NewClassRepository(s),
		students: NewStudentRepository(s),
		records:  NewRecordRepository(s),
		drafts:   NewDraftRepository(s),
	}
}

func date(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.store.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := f.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "1"})
		require.NoError(t, err)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, f.store.Counts().Classes)
}

func TestWithinTransaction_RollbackKeepsConcurrentWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	boom := errors.New("boom")

	done := make(chan error, 1)
	err := f.store.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := f.classes.Create(txCtx, class.Class{Name: "Grade 1", GradeLevel: "1"})
		require.NoError(t, err)

		started := make(chan struct{})
		go func() {
			close(started)
			_, err := f.classes.Create(ctx, class.Class{Name: "Grade 2", GradeLevel: "2"})
			done <- err
		}()
		<-started
		time.Sleep(20 * time.Millisecond)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("standalone write still blocked after the unit of work ended")
	}

	classes, err := f.classes.List(ctx)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "2", classes[0].GradeLevel)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	err := f.store.WithinTransaction(ctx, func(ctx context.Context) error {
		return f.store.WithinTransaction(ctx, func(ctx context.Context) error {
			_, err := f.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "1"})
			return err
		})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, f.store.Counts().Classes)
}

func TestClassDelete_Cascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	teacher, err := f.users.Create(ctx, user.User{Email: "t@school.com", Role: user.RoleTeacher})
	require.NoError(t, err)
	c, err := f.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "1", TeacherID: &teacher.ID})
	require.NoError(t, err)
	s, err := f.students.Create(ctx, student.Student{FirstName: "Ali", LastName: "Khan", RollNumber: "1", ClassID: c.ID})
	require.NoError(t, err)
	require.NoError(t, f.records.Upsert(ctx, attendance.Record{StudentID: s.ID, ClassID: c.ID, Status: attendance.StatusAbsent, RecordedBy: teacher.ID, Date: date(4)}))
	require.NoError(t, f.drafts.CreateMany(ctx, []attendance.Draft{{TeacherID: teacher.ID, ClassID: c.ID, StudentID: s.ID, Status: attendance.StatusLate, Date: date(5)}}))

	require.NoError(t, f.classes.Delete(ctx, c.ID))

	counts := f.store.Counts()
	assert.Zero(t, counts.Classes)
	assert.Zero(t, counts.Students)
	assert.Zero(t, counts.Records)
	assert.Zero(t, counts.Drafts)
	assert.Equal(t, 1, counts.Users)
}

func TestRecordUpsert_KeepsClassSnapshot(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	teacher, err := f.users.Create(ctx, user.User{Email: "t@school.com", Role: user.RoleTeacher})
	require.NoError(t, err)
	a, err := f.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "1"})
	require.NoError(t, err)
	b, err := f.classes.Create(ctx, class.Class{Name: "Grade 2", GradeLevel: "2"})
	require.NoError(t, err)
	s, err := f.students.Create(ctx, student.Student{FirstName: "Ali", LastName: "Khan", RollNumber: "1", ClassID: a.ID})
	require.NoError(t, err)

	require.NoError(t, f.records.Upsert(ctx, attendance.Record{StudentID: s.ID, ClassID: a.ID, Status: attendance.StatusAbsent, RecordedBy: teacher.ID, Date: date(4)}))
	require.NoError(t, f.records.Upsert(ctx, attendance.Record{StudentID: s.ID, ClassID: b.ID, Status: attendance.StatusPresent, RecordedBy: teacher.ID, Date: date(4)}))

	got, err := f.records.List(ctx, attendance.RecordFilter{From: date(1), To: date(31)})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, a.ID, got[0].ClassID)
	assert.Equal(t, attendance.StatusPresent, got[0].Status)
	assert.Equal(t, "Ali Khan", got[0].StudentName())
}

func TestUniqueKeys(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.users.Create(ctx, user.User{Email: "t@school.com"})
	require.NoError(t, err)
	_, err = f.users.Create(ctx, user.User{Email: "T@school.com"})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)

	c, err := f.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "1"})
	require.NoError(t, err)
	_, err = f.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "1"})
	assert.ErrorIs(t, err, class.ErrGradeLevelExists)

	_, err = f.students.Create(ctx, student.Student{FirstName: "A", LastName: "B", RollNumber: "7", ClassID: c.ID})
	require.NoError(t, err)
	_, err = f.students.Create(ctx, student.Student{FirstName: "C", LastName: "D", RollNumber: "7", ClassID: c.ID})
	assert.ErrorIs(t, err, student.ErrRollNumberExists)
	_, err = f.students.Create(ctx, student.Student{FirstName: "C", LastName: "D", RollNumber: "8", ClassID: "missing"})
	assert.ErrorIs(t, err, class.ErrClassNotFound)
}

func TestDraftDeleteBefore(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	teacher, err := f.users.Create(ctx, user.User{Email: "t@school.com", Role: user.RoleTeacher})
	require.NoError(t, err)
	c, err := f.classes.Create(ctx, class.Class{Name: "Grade 1", GradeLevel: "1"})
	require.NoError(t, err)
	s, err := f.students.Create(ctx, student.Student{FirstName: "A", LastName: "B", RollNumber: "1", ClassID: c.ID})
	require.NoError(t, err)

	require.NoError(t, f.drafts.CreateMany(ctx, []attendance.Draft{
		{TeacherID: teacher.ID, ClassID: c.ID, StudentID: s.ID, Status: attendance.StatusLate, Date: date(4)},
		{TeacherID: teacher.ID, ClassID: c.ID, StudentID: s.ID, Status: attendance.StatusLate, Date: date(5)},
	}))

	n, err := f.drafts.DeleteBefore(ctx, date(5))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	left, err := f.drafts.ListForDay(ctx, teacher.ID, c.ID, date(5))
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestRefreshTokens(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	users := NewUserRepository(s)
	tokens := NewRefreshTokenRepository(s)
	now := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)

	u, err := users.Create(ctx, user.User{Email: "a@school.com", Role: user.RoleAdmin})
	require.NoError(t, err)

	require.NoError(t, tokens.Create(ctx, u.ID, "tok", now.Add(time.Hour), auth.SessionTrackingRequest{}))

	revoked, err := tokens.IsRevoked(ctx, "tok", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = tokens.IsRevoked(ctx, "tok", now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.True(t, revoked, "expired token counts as revoked")

	require.NoError(t, tokens.Revoke(ctx, "tok"))
	revoked, err = tokens.IsRevoked(ctx, "tok", now)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = tokens.IsRevoked(ctx, "unknown", now)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	n, err := tokens.DeleteStale(ctx, now.Add(3*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}
