package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const classColumns = `id, name, grade_level, teacher_id, created_at, updated_at`

const classStatsQuery = `
	SELECT c.id, c.name, c.grade_level, c.teacher_id, c.created_at, c.updated_at,
		   CASE WHEN u.id IS NULL THEN NULL ELSE u.first_name || ' ' || u.last_name END,
		   (SELECT COUNT(*) FROM students s WHERE s.class_id = c.id),
		   (SELECT COUNT(*) FROM attendance_records ar WHERE ar.class_id = c.id AND ar.status = 'PRESENT'),
		   (SELECT COUNT(*) FROM attendance_records ar WHERE ar.class_id = c.id)
	FROM classes c
	LEFT JOIN users u ON u.id = c.teacher_id
`

type classRepositoryImpl struct {
	db *database.DB
}

func NewClassRepository(db *database.DB) class.ClassRepository {
	return &classRepositoryImpl{db: db}
}

func scanClass(row pgx.Row) (class.Class, error) {
	var c class.Class
	err := row.Scan(&c.ID, &c.Name, &c.GradeLevel, &c.TeacherID, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return class.Class{}, class.ErrClassNotFound
	}
	return c, err
}

func mapClassWriteError(err error) error {
	if _, ok := constraintViolation(err, codeUniqueViolation); ok {
		return class.ErrGradeLevelExists
	}
	if _, ok := constraintViolation(err, codeForeignKeyViolation); ok {
		return user.ErrUserNotFound
	}
	return err
}

func (r *classRepositoryImpl) Create(ctx context.Context, c class.Class) (class.Class, error) {
	q := GetQuerier(ctx, r.db)

	if c.ID == "" {
		c.ID = newID()
	}
	if c.TeacherID != nil && !validIDs(*c.TeacherID) {
		return class.Class{}, user.ErrUserNotFound
	}

	query := `
		INSERT INTO classes (id, name, grade_level, teacher_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + classColumns

	created, err := scanClass(q.QueryRow(ctx, query, c.ID, c.Name, c.GradeLevel, c.TeacherID))
	if err != nil {
		if mapped := mapClassWriteError(err); mapped != err {
			return class.Class{}, mapped
		}
		return class.Class{}, fmt.Errorf("failed to create class: %w", err)
	}
	return created, nil
}

func (r *classRepositoryImpl) GetByID(ctx context.Context, id string) (class.Class, error) {
	if !validIDs(id) {
		return class.Class{}, class.ErrClassNotFound
	}
	q := GetQuerier(ctx, r.db)
	return scanClass(q.QueryRow(ctx, `SELECT `+classColumns+` FROM classes WHERE id = $1`, id))
}

func (r *classRepositoryImpl) GetStats(ctx context.Context, id string) (class.ClassStats, error) {
	if !validIDs(id) {
		return class.ClassStats{}, class.ErrClassNotFound
	}
	classes, err := r.listStats(ctx, classStatsQuery+` WHERE c.id = $1`, id)
	if err != nil {
		return class.ClassStats{}, err
	}
	if len(classes) == 0 {
		return class.ClassStats{}, class.ErrClassNotFound
	}
	return classes[0], nil
}

func (r *classRepositoryImpl) ExistsByGradeLevel(ctx context.Context, gradeLevel string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM classes WHERE grade_level = $1 AND ($2 = '' OR id::text <> $2))`,
		gradeLevel, excludeID,
	).Scan(&exists)
	return exists, err
}

func (r *classRepositoryImpl) Update(ctx context.Context, c class.Class) error {
	if !validIDs(c.ID) {
		return class.ErrClassNotFound
	}
	if c.TeacherID != nil && !validIDs(*c.TeacherID) {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE classes
		SET name = $1, grade_level = $2, teacher_id = $3, updated_at = NOW()
		WHERE id = $4
	`
	tag, err := q.Exec(ctx, query, c.Name, c.GradeLevel, c.TeacherID, c.ID)
	if err != nil {
		if mapped := mapClassWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return class.ErrClassNotFound
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for students, records and drafts.
func (r *classRepositoryImpl) Delete(ctx context.Context, id string) error {
	if !validIDs(id) {
		return class.ErrClassNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM classes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete class: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return class.ErrClassNotFound
	}
	return nil
}

func (r *classRepositoryImpl) listStats(ctx context.Context, query string, args ...interface{}) ([]class.ClassStats, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list classes: %w", err)
	}
	defer rows.Close()

	classes := []class.ClassStats{}
	for rows.Next() {
		var cs class.ClassStats
		if err := rows.Scan(
			&cs.ID, &cs.Name, &cs.GradeLevel, &cs.TeacherID, &cs.CreatedAt, &cs.UpdatedAt,
			&cs.TeacherName, &cs.StudentCount, &cs.PresentCount, &cs.RecordCount,
		); err != nil {
			return nil, fmt.Errorf("failed to scan class: %w", err)
		}
		classes = append(classes, cs)
	}
	return classes, rows.Err()
}

func (r *classRepositoryImpl) List(ctx context.Context) ([]class.ClassStats, error) {
	return r.listStats(ctx, classStatsQuery+` ORDER BY c.name, c.id`)
}

func (r *classRepositoryImpl) ListByTeacher(ctx context.Context, teacherID string) ([]class.ClassStats, error) {
	if !validIDs(teacherID) {
		return []class.ClassStats{}, nil
	}
	return r.listStats(ctx, classStatsQuery+` WHERE c.teacher_id = $1 ORDER BY c.name, c.id`, teacherID)
}

func (r *classRepositoryImpl) UnassignTeacher(ctx context.Context, teacherID string) error {
	if !validIDs(teacherID) {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE classes SET teacher_id = NULL, updated_at = NOW() WHERE teacher_id = $1`, teacherID); err != nil {
		return fmt.Errorf("failed to unassign teacher: %w", err)
	}
	return nil
}

func (r *classRepositoryImpl) AssignTeacher(ctx context.Context, classID string, teacherID *string) error {
	if !validIDs(classID) {
		return class.ErrClassNotFound
	}
	if teacherID != nil && !validIDs(*teacherID) {
		return user.ErrUserNotFound
	}
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE classes SET teacher_id = $1, updated_at = NOW() WHERE id = $2`, teacherID, classID)
	if err != nil {
		if _, ok := constraintViolation(err, codeForeignKeyViolation); ok {
			return user.ErrUserNotFound
		}
		return fmt.Errorf("failed to assign teacher: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return class.ErrClassNotFound
	}
	return nil
}
