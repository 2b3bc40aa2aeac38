package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/school-attendance-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const recordDetailSelect = `
	SELECT ar.id, ar.student_id, ar.class_id, ar.status, ar.recorded_by, ar.recorded_at, ar.date,
		   s.first_name, s.last_name, c.name
	FROM attendance_records ar
	JOIN students s ON s.id = ar.student_id
	JOIN classes c ON c.id = ar.class_id
`

const recordDetailOrder = ` ORDER BY ar.date DESC, s.first_name, s.last_name, ar.student_id`

type recordRepository struct {
	db *database.DB
}

func NewRecordRepository(db *database.DB) attendance.RecordRepository {
	return &recordRepository{db: db}
}

// Upsert implements attendance.RecordRepository.
func (r *recordRepository) Upsert(ctx context.Context, record attendance.Record) error {
	q := GetQuerier(ctx, r.db)

	if record.ID == "" {
		record.ID = newID()
	}
	switch {
	case !validIDs(record.StudentID):
		return student.ErrStudentNotFound
	case !validIDs(record.ClassID):
		return class.ErrClassNotFound
	case !validIDs(record.RecordedBy):
		return user.ErrUserNotFound
	}

	query := `
		INSERT INTO attendance_records (id, student_id, class_id, status, recorded_by, recorded_at, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (student_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			recorded_by = EXCLUDED.recorded_by,
			recorded_at = EXCLUDED.recorded_at
	`
	_, err := q.Exec(ctx, query,
		record.ID,
		record.StudentID,
		record.ClassID,
		record.Status,
		record.RecordedBy,
		record.RecordedAt,
		period.DateOf(record.Date),
	)
	if err != nil {
		if constraint, ok := constraintViolation(err, codeForeignKeyViolation); ok {
			return foreignKeyError(constraint)
		}
		return fmt.Errorf("failed to upsert attendance record: %w", err)
	}
	return nil
}

func foreignKeyError(constraint string) error {
	switch {
	case strings.Contains(constraint, "student_id"):
		return student.ErrStudentNotFound
	case strings.Contains(constraint, "class_id"):
		return class.ErrClassNotFound
	default:
		return user.ErrUserNotFound
	}
}

func (r *recordRepository) listDetails(ctx context.Context, query string, args ...interface{}) ([]attendance.RecordDetail, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}
	defer rows.Close()

	records := []attendance.RecordDetail{}
	for rows.Next() {
		var d attendance.RecordDetail
		if err := rows.Scan(
			&d.ID, &d.StudentID, &d.ClassID, &d.Status, &d.RecordedBy, &d.RecordedAt, &d.Date,
			&d.StudentFirstName, &d.StudentLastName, &d.ClassName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan attendance record: %w", err)
		}
		records = append(records, d)
	}
	return records, rows.Err()
}

// List implements attendance.RecordRepository.
func (r *recordRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.RecordDetail, error) {
	empty := []attendance.RecordDetail{}
	where := " WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if len(filter.ClassIDs) > 0 {
		ids := uuidsOnly(filter.ClassIDs)
		if len(ids) == 0 {
			return empty, nil
		}
		where += fmt.Sprintf(" AND ar.class_id = ANY($%d::text[]::uuid[])", argIdx)
		args = append(args, ids)
		argIdx++
	}
	if len(filter.StudentIDs) > 0 {
		ids := uuidsOnly(filter.StudentIDs)
		if len(ids) == 0 {
			return empty, nil
		}
		where += fmt.Sprintf(" AND ar.student_id = ANY($%d::text[]::uuid[])", argIdx)
		args = append(args, ids)
		argIdx++
	}
	if filter.RecordedBy != "" {
		if !validIDs(filter.RecordedBy) {
			return empty, nil
		}
		where += fmt.Sprintf(" AND ar.recorded_by = $%d", argIdx)
		args = append(args, filter.RecordedBy)
		argIdx++
	}
	if !filter.From.IsZero() {
		where += fmt.Sprintf(" AND ar.date >= $%d", argIdx)
		args = append(args, period.DateOf(filter.From))
		argIdx++
	}
	if !filter.To.IsZero() {
		where += fmt.Sprintf(" AND ar.date <= $%d", argIdx)
		args = append(args, period.DateOf(filter.To))
	}

	return r.listDetails(ctx, recordDetailSelect+where+recordDetailOrder, args...)
}

// ListByClass implements attendance.RecordRepository.
func (r *recordRepository) ListByClass(ctx context.Context, classID string) ([]attendance.RecordDetail, error) {
	if !validIDs(classID) {
		return []attendance.RecordDetail{}, nil
	}
	return r.listDetails(ctx, recordDetailSelect+` WHERE ar.class_id = $1`+recordDetailOrder, classID)
}

type draftRepository struct {
	db *database.DB
}

func NewDraftRepository(db *database.DB) attendance.DraftRepository {
	return &draftRepository{db: db}
}

func (r *draftRepository) DeleteForDay(ctx context.Context, teacherID, classID string, date time.Time) error {
	if !validIDs(teacherID, classID) {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	_, err := q.Exec(ctx,
		`DELETE FROM attendance_drafts WHERE teacher_id = $1 AND class_id = $2 AND date = $3`,
		teacherID, classID, period.DateOf(date),
	)
	if err != nil {
		return fmt.Errorf("failed to delete drafts: %w", err)
	}
	return nil
}

// CreateMany queues every insert in one batch round trip.
func (r *draftRepository) CreateMany(ctx context.Context, drafts []attendance.Draft) error {
	if len(drafts) == 0 {
		return nil
	}
	q := GetQuerier(ctx, r.db)

	batch := &pgx.Batch{}
	for _, d := range drafts {
		if d.ID == "" {
			d.ID = newID()
		}
		switch {
		case !validIDs(d.StudentID):
			return student.ErrStudentNotFound
		case !validIDs(d.ClassID):
			return class.ErrClassNotFound
		case !validIDs(d.TeacherID):
			return user.ErrUserNotFound
		}
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = time.Now()
		}
		batch.Queue(`
			INSERT INTO attendance_drafts (id, teacher_id, class_id, student_id, status, date, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			d.ID, d.TeacherID, d.ClassID, d.StudentID, d.Status, period.DateOf(d.Date), d.UpdatedAt,
		)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	for range drafts {
		if _, err := results.Exec(); err != nil {
			if _, ok := constraintViolation(err, codeUniqueViolation); ok {
				return attendance.ErrDuplicateDraft
			}
			if constraint, ok := constraintViolation(err, codeForeignKeyViolation); ok {
				return foreignKeyError(constraint)
			}
			return fmt.Errorf("failed to create draft: %w", err)
		}
	}
	return nil
}

func (r *draftRepository) ListForDay(ctx context.Context, teacherID, classID string, date time.Time) ([]attendance.Draft, error) {
	if !validIDs(teacherID, classID) {
		return []attendance.Draft{}, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, teacher_id, class_id, student_id, status, date, updated_at
		FROM attendance_drafts
		WHERE teacher_id = $1 AND class_id = $2 AND date = $3
		ORDER BY student_id`,
		teacherID, classID, period.DateOf(date),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	drafts := []attendance.Draft{}
	for rows.Next() {
		var d attendance.Draft
		if err := rows.Scan(&d.ID, &d.TeacherID, &d.ClassID, &d.StudentID, &d.Status, &d.Date, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

func (r *draftRepository) DeleteBefore(ctx context.Context, date time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_drafts WHERE date < $1`, period.DateOf(date))
	if err != nil {
		return 0, fmt.Errorf("failed to purge drafts: %w", err)
	}
	return tag.RowsAffected(), nil
}

type teacherAttendanceRepository struct {
	db *database.DB
}

func NewTeacherAttendanceRepository(db *database.DB) attendance.TeacherAttendanceRepository {
	return &teacherAttendanceRepository{db: db}
}

func (r *teacherAttendanceRepository) Upsert(ctx context.Context, a attendance.TeacherAttendance) (attendance.TeacherAttendance, error) {
	q := GetQuerier(ctx, r.db)

	if a.ID == "" {
		a.ID = newID()
	}
	if !validIDs(a.TeacherID) {
		return attendance.TeacherAttendance{}, user.ErrUserNotFound
	}

	query := `
		INSERT INTO teacher_attendance (id, teacher_id, status, date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (teacher_id, date) DO UPDATE SET status = EXCLUDED.status
		RETURNING id, teacher_id, status, date
	`
	var saved attendance.TeacherAttendance
	err := q.QueryRow(ctx, query, a.ID, a.TeacherID, a.Status, period.DateOf(a.Date)).
		Scan(&saved.ID, &saved.TeacherID, &saved.Status, &saved.Date)
	if err != nil {
		if _, ok := constraintViolation(err, codeForeignKeyViolation); ok {
			return attendance.TeacherAttendance{}, user.ErrUserNotFound
		}
		return attendance.TeacherAttendance{}, fmt.Errorf("failed to upsert teacher attendance: %w", err)
	}
	return saved, nil
}

func (r *teacherAttendanceRepository) ListByTeacher(ctx context.Context, teacherID string, from, to time.Time) ([]attendance.TeacherAttendance, error) {
	if !validIDs(teacherID) {
		return []attendance.TeacherAttendance{}, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, teacher_id, status, date
		FROM teacher_attendance
		WHERE teacher_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date`,
		teacherID, period.DateOf(from), period.DateOf(to),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teacher attendance: %w", err)
	}
	defer rows.Close()

	list := []attendance.TeacherAttendance{}
	for rows.Next() {
		var a attendance.TeacherAttendance
		if err := rows.Scan(&a.ID, &a.TeacherID, &a.Status, &a.Date); err != nil {
			return nil, fmt.Errorf("failed to scan teacher attendance: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
