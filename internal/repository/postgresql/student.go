package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const studentSelect = `
	SELECT s.id, s.first_name, s.last_name, s.roll_number, s.class_id, s.created_at, s.updated_at,
		   c.name, c.grade_level
	FROM students s
	JOIN classes c ON c.id = s.class_id
`

type studentRepositoryImpl struct {
	db *database.DB
}

func NewStudentRepository(db *database.DB) student.StudentRepository {
	return &studentRepositoryImpl{db: db}
}

func scanStudent(row pgx.Row) (student.Student, error) {
	var s student.Student
	err := row.Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.RollNumber, &s.ClassID, &s.CreatedAt, &s.UpdatedAt,
		&s.ClassName, &s.GradeLevel,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return student.Student{}, student.ErrStudentNotFound
	}
	return s, err
}

func mapStudentWriteError(err error) error {
	if _, ok := constraintViolation(err, codeUniqueViolation); ok {
		return student.ErrRollNumberExists
	}
	if _, ok := constraintViolation(err, codeForeignKeyViolation); ok {
		return class.ErrClassNotFound
	}
	return err
}

func (r *studentRepositoryImpl) Create(ctx context.Context, s student.Student) (student.Student, error) {
	q := GetQuerier(ctx, r.db)

	if s.ID == "" {
		s.ID = newID()
	}
	if !validIDs(s.ClassID) {
		return student.Student{}, class.ErrClassNotFound
	}

	query := `
		INSERT INTO students (id, first_name, last_name, roll_number, class_id)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := q.Exec(ctx, query, s.ID, s.FirstName, s.LastName, s.RollNumber, s.ClassID); err != nil {
		if mapped := mapStudentWriteError(err); mapped != err {
			return student.Student{}, mapped
		}
		return student.Student{}, fmt.Errorf("failed to create student: %w", err)
	}
	return r.GetByID(ctx, s.ID)
}

func (r *studentRepositoryImpl) GetByID(ctx context.Context, id string) (student.Student, error) {
	if !validIDs(id) {
		return student.Student{}, student.ErrStudentNotFound
	}
	q := GetQuerier(ctx, r.db)
	return scanStudent(q.QueryRow(ctx, studentSelect+` WHERE s.id = $1`, id))
}

func (r *studentRepositoryImpl) Update(ctx context.Context, s student.Student) error {
	if !validIDs(s.ID) {
		return student.ErrStudentNotFound
	}
	if !validIDs(s.ClassID) {
		return class.ErrClassNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, roll_number = $3, class_id = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := q.Exec(ctx, query, s.FirstName, s.LastName, s.RollNumber, s.ClassID, s.ID)
	if err != nil {
		if mapped := mapStudentWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for records and drafts.
func (r *studentRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !validIDs(id) {
		return student.ErrStudentNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return student.ErrStudentNotFound
	}
	return nil
}

func (r *studentRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]student.Student, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := []student.Student{}
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan student: %w", err)
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

func (r *studentRepositoryImpl) List(ctx context.Context) ([]student.Student, error) {
	return r.list(ctx, studentSelect+` ORDER BY s.first_name, s.last_name, s.id`)
}

func (r *studentRepositoryImpl) ListByClasses(ctx context.Context, classIDs []string) ([]student.Student, error) {
	classIDs = uuidsOnly(classIDs)
	if len(classIDs) == 0 {
		return []student.Student{}, nil
	}
	return r.list(ctx, studentSelect+` WHERE s.class_id = ANY($1::text[]::uuid[]) ORDER BY s.first_name, s.last_name, s.id`, classIDs)
}

func (r *studentRepositoryImpl) ExistsByRollNumber(ctx context.Context, classID, rollNumber, excludeID string) (bool, error) {
	if !validIDs(classID) {
		return false, nil
	}
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM students WHERE class_id = $1 AND roll_number = $2 AND ($3 = '' OR id::text <> $3))`,
		classID, rollNumber, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *studentRepositoryImpl) Count(ctx context.Context) (int, error) {
	q := GetQuerier(ctx, r.db)

	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&n)
	return n, err
}
