package postgresql_test

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
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC)

func TestUserRepository_EmailUniqueness(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := postgresql.NewUserRepository(db)

	created, err := users.Create(ctx, user.User{
		Email: "admin@school.com", PasswordHash: "hash", FirstName: "Ada", LastName: "Root", Role: user.RoleAdmin,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	_, err = users.Create(ctx, user.User{
		Email: "admin@school.com", PasswordHash: "hash", FirstName: "B", LastName: "B", Role: user.RoleAdmin,
	})
	assert.ErrorIs(t, err, user.ErrEmailAlreadyExists)

	exists, err := users.ExistsByEmail(ctx, "admin@school.com", created.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := users.GetByEmail(ctx, "admin@school.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = users.GetByID(ctx, "0190a0d0-0000-7000-8000-000000000000")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestClassRepository_StatsAndCascade(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := createFixture(t, db)
	classes := postgresql.NewClassRepository(db)
	records := postgresql.NewRecordRepository(db)

	require.NoError(t, records.Upsert(ctx, attendance.Record{
		StudentID: f.student.ID, ClassID: f.class.ID, Status: attendance.StatusPresent,
		RecordedBy: f.teacher.ID, RecordedAt: time.Now(), Date: day,
	}))

	stats, err := classes.GetStats(ctx, f.class.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.StudentCount)
	assert.InDelta(t, 1.0, stats.AttendanceRate(), 0.0001)

	_, err = classes.Create(ctx, class.Class{Name: "Grade 2", GradeLevel: "Grade 2"})
	assert.ErrorIs(t, err, class.ErrGradeLevelExists)

	require.NoError(t, classes.Delete(ctx, f.class.ID))
	_, err = postgresql.NewStudentRepository(db).GetByID(ctx, f.student.ID)
	assert.ErrorIs(t, err, student.ErrStudentNotFound)

	_, err = classes.GetStats(ctx, f.class.ID)
	assert.ErrorIs(t, err, class.ErrClassNotFound)
}

func TestStudentRepository_RollNumberUnique(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := createFixture(t, db)
	students := postgresql.NewStudentRepository(db)

	_, err := students.Create(ctx, student.Student{FirstName: "Zara", LastName: "Khan", RollNumber: "01", ClassID: f.class.ID})
	assert.ErrorIs(t, err, student.ErrRollNumberExists)

	exists, err := students.ExistsByRollNumber(ctx, f.class.ID, "01", f.student.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := students.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRecordRepository_UpsertKeepsClassSnapshot(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := createFixture(t, db)
	records := postgresql.NewRecordRepository(db)

	base := attendance.Record{
		StudentID: f.student.ID, ClassID: f.class.ID, Status: attendance.StatusAbsent,
		RecordedBy: f.teacher.ID, RecordedAt: time.Now(), Date: day,
	}
	require.NoError(t, records.Upsert(ctx, base))

	base.Status = attendance.StatusLate
	require.NoError(t, records.Upsert(ctx, base))

	list, err := records.List(ctx, attendance.RecordFilter{ClassIDs: []string{f.class.ID}, From: day, To: day})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, attendance.StatusLate, list[0].Status)
	assert.Equal(t, "Ali Khan", list[0].StudentName())
	assert.Equal(t, "Grade 2", list[0].ClassName)

	outside, err := records.List(ctx, attendance.RecordFilter{From: day.AddDate(0, 0, 1), To: day.AddDate(0, 0, 2)})
	require.NoError(t, err)
	assert.Empty(t, outside)
}

func TestDraftRepository_Lifecycle(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := createFixture(t, db)
	drafts := postgresql.NewDraftRepository(db)

	draft := attendance.Draft{
		TeacherID: f.teacher.ID, ClassID: f.class.ID, StudentID: f.student.ID, Status: attendance.StatusPresent, Date: day,
	}
	require.NoError(t, drafts.CreateMany(ctx, []attendance.Draft{draft}))
	assert.ErrorIs(t, drafts.CreateMany(ctx, []attendance.Draft{draft}), attendance.ErrDuplicateDraft)

	list, err := drafts.ListForDay(ctx, f.teacher.ID, f.class.ID, day)
	require.NoError(t, err)
	require.Len(t, list, 1)

	deleted, err := drafts.DeleteBefore(ctx, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestTransactor_RollsBack(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(db)
	users := postgresql.NewUserRepository(db)
	boom := errors.New("boom")

	err := tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := users.Create(txCtx, user.User{
			Email: "ghost@school.com", PasswordHash: "hash", FirstName: "G", LastName: "G", Role: user.RoleAdmin,
		}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = users.GetByEmail(ctx, "ghost@school.com")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestRefreshTokenRepository_RevokeAndPurge(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	f := createFixture(t, db)
	tokens := postgresql.NewRefreshTokenRepository(db)
	now := time.Now()

	require.NoError(t, tokens.Create(ctx, f.teacher.ID, "live", now.Add(time.Hour), auth.SessionTrackingRequest{UserAgent: "test"}))
	require.NoError(t, tokens.Create(ctx, f.teacher.ID, "old", now.Add(-time.Hour), auth.SessionTrackingRequest{}))

	revoked, err := tokens.IsRevoked(ctx, "live", now)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, tokens.Revoke(ctx, "live"))
	revoked, err = tokens.IsRevoked(ctx, "live", now)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = tokens.IsRevoked(ctx, "unknown", now)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	deleted, err := tokens.DeleteStale(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
