package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/auth"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/teacher"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/clock"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrAlreadySeeded is returned by Run when the admin account exists.
var ErrAlreadySeeded = errors.New("database already seeded")

var tables = []string{
	"attendance_drafts",
	"attendance_records",
	"teacher_attendance",
	"refresh_tokens",
	"students",
	"classes",
	"users",
}

type Summary struct {
	Classes           int
	Students          int
	TeachingDays      int
	StudentRecords    int64
	TeacherAttendance int64
}

// Seeder creates accounts and classes through the services, then bulk loads
// students and attendance with COPY.
type Seeder struct {
	db       *database.DB
	clock    clock.Clock
	rng      *rand.Rand
	users    user.UserRepository
	auth     auth.AuthService
	classes  class.ClassService
	teachers teacher.TeacherService
}

func NewSeeder(
	db *database.DB,
	clk clock.Clock,
	rng *rand.Rand,
	users user.UserRepository,
	authService auth.AuthService,
	classService class.ClassService,
	teacherService teacher.TeacherService,
) *Seeder {
	return &Seeder{
		db:       db,
		clock:    clk,
		rng:      rng,
		users:    users,
		auth:     authService,
		classes:  classService,
		teachers: teacherService,
	}
}

// Reset empties every application table.
func (s *Seeder) Reset(ctx context.Context) error {
	slog.Info("Clearing existing data")
	for _, table := range tables {
		if _, err := s.db.Exec(ctx, "TRUNCATE TABLE "+pgx.Identifier{table}.Sanitize()+" CASCADE"); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

type seededClass struct {
	id        uuid.UUID
	teacherID uuid.UUID
}

func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	exists, err := s.users.ExistsByEmail(ctx, AdminEmail, "")
	if err != nil {
		return Summary{}, fmt.Errorf("failed to check admin: %w", err)
	}
	if exists {
		return Summary{}, ErrAlreadySeeded
	}

	if _, err := s.auth.RegisterAdmin(ctx, auth.RegisterAdminRequest{
		Email:     AdminEmail,
		Password:  AdminPassword,
		FirstName: "Admin",
		LastName:  "User",
	}); err != nil {
		return Summary{}, fmt.Errorf("failed to create admin: %w", err)
	}
	slog.Info("Admin account ready", "email", AdminEmail)

	classes, err := s.createClasses(ctx)
	if err != nil {
		return Summary{}, err
	}

	students, err := s.copyStudents(ctx, classes)
	if err != nil {
		return Summary{}, err
	}

	days := TeachingDays(s.clock.Now())
	summary := Summary{
		Classes:      len(classes),
		Students:     len(students),
		TeachingDays: len(days),
	}

	summary.StudentRecords, err = s.copyStudentRecords(ctx, students, days)
	if err != nil {
		return Summary{}, err
	}
	summary.TeacherAttendance, err = s.copyTeacherAttendance(ctx, classes, days)
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}

func (s *Seeder) createClasses(ctx context.Context) ([]seededClass, error) {
	out := make([]seededClass, 0, len(Classes))
	for _, def := range Classes {
		c, err := s.classes.Create(ctx, class.CreateClassRequest{GradeLevel: def.GradeLevel})
		if err != nil {
			return nil, fmt.Errorf("failed to create class %s: %w", def.GradeLevel, err)
		}

		classID := c.ID
		t, err := s.teachers.Create(ctx, teacher.CreateTeacherRequest{
			FirstName: def.TeacherFirstName,
			LastName:  def.TeacherLastName,
			Email:     TeacherEmail(def.GradeLevel),
			Password:  TeacherPassword,
			ClassID:   &classID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create teacher for %s: %w", def.GradeLevel, err)
		}

		out = append(out, seededClass{id: uuid.MustParse(c.ID), teacherID: uuid.MustParse(t.ID)})
		slog.Info("Class ready", "grade_level", def.GradeLevel, "teacher", t.Email)
	}
	return out, nil
}

type seededStudent struct {
	id        uuid.UUID
	classID   uuid.UUID
	teacherID uuid.UUID
}

func (s *Seeder) copyStudents(ctx context.Context, classes []seededClass) ([]seededStudent, error) {
	var (
		rows     [][]interface{}
		students []seededStudent
	)
	for i, c := range classes {
		for _, st := range Roster(i) {
			id := uuid.Must(uuid.NewV7())
			rows = append(rows, []interface{}{id, st.FirstName, st.LastName, st.RollNumber, c.id})
			students = append(students, seededStudent{id: id, classID: c.id, teacherID: c.teacherID})
		}
	}

	if _, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"students"},
		[]string{"id", "first_name", "last_name", "roll_number", "class_id"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return nil, fmt.Errorf("failed to copy students: %w", err)
	}
	slog.Info("Students added", "count", len(students), "per_class", StudentsPerClass)
	return students, nil
}

func (s *Seeder) copyStudentRecords(ctx context.Context, students []seededStudent, days []time.Time) (int64, error) {
	rows := make([][]interface{}, 0, len(students)*len(days))
	for _, day := range days {
		for _, st := range students {
			rows = append(rows, []interface{}{st.id, st.classID, string(pick(s.rng, studentPool)), st.teacherID, day})
		}
	}

	n, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"attendance_records"},
		[]string{"student_id", "class_id", "status", "recorded_by", "date"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy attendance records: %w", err)
	}
	slog.Info("Student attendance generated", "records", n, "days", len(days))
	return n, nil
}

func (s *Seeder) copyTeacherAttendance(ctx context.Context, classes []seededClass, days []time.Time) (int64, error) {
	rows := make([][]interface{}, 0, len(classes)*len(days))
	for _, day := range days {
		for _, c := range classes {
			rows = append(rows, []interface{}{c.teacherID, string(pick(s.rng, teacherPool)), day})
		}
	}

	n, err := s.db.CopyFrom(ctx,
		pgx.Identifier{"teacher_attendance"},
		[]string{"teacher_id", "status", "date"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy teacher attendance: %w", err)
	}
	slog.Info("Teacher attendance generated", "records", n)
	return n, nil
}
