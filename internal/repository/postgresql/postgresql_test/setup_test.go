package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/cmlabs-hris/school-attendance-go/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

var (
	testDB      *database.DB
	testDBErr   error
	testDBSetup sync.Once
)

var tables = []string{
	"attendance_drafts",
	"attendance_records",
	"teacher_attendance",
	"refresh_tokens",
	"students",
	"classes",
	"users",
}

// setupDB connects to TEST_DATABASE_URL, applies migrations once and empties every table.
// Tests are skipped when the variable is unset.
func setupDB(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	testDBSetup.Do(func() {
		testDB, testDBErr = database.NewPostgreSQLDB(ctx, dsn, database.PoolConfig{MaxConns: 5, MinConns: 1})
		if testDBErr != nil {
			return
		}
		testDBErr = database.Migrate(ctx, testDB)
	})
	require.NoError(t, testDBErr)

	for _, table := range tables {
		_, err := testDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
	return testDB
}

type fixture struct {
	teacher user.User
	class   class.Class
	student student.Student
}

func createFixture(t *testing.T, db *database.DB) fixture {
	t.Helper()
	ctx := context.Background()

	tch, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		Email: "sara@school.com", PasswordHash: "hash", FirstName: "Sara", LastName: "Malik", Role: user.RoleTeacher,
	})
	require.NoError(t, err)

	c, err := postgresql.NewClassRepository(db).Create(ctx, class.Class{Name: "Grade 2", GradeLevel: "Grade 2", TeacherID: &tch.ID})
	require.NoError(t, err)

	s, err := postgresql.NewStudentRepository(db).Create(ctx, student.Student{
		FirstName: "Ali", LastName: "Khan", RollNumber: "01", ClassID: c.ID,
	})
	require.NoError(t, err)

	return fixture{teacher: tch, class: c, student: s}
}
