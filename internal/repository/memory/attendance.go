package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/period"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
)

type recordRepository struct {
	s *Store
}

func NewRecordRepository(s *Store) attendance.RecordRepository {
	return &recordRepository{s: s}
}

func (r *recordRepository) Upsert(ctx context.Context, record attendance.Record) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.students[record.StudentID]; !ok {
		return student.ErrStudentNotFound
	}
	if _, ok := r.s.data.classes[record.ClassID]; !ok {
		return class.ErrClassNotFound
	}
	record.Date = period.DateOf(record.Date)

	for id, existing := range r.s.data.records {
		if existing.StudentID == record.StudentID && existing.Date.Equal(record.Date) {
			existing.Status = record.Status
			existing.RecordedBy = record.RecordedBy
			existing.RecordedAt = record.RecordedAt
			r.s.data.records[id] = existing
			return nil
		}
	}

	if record.ID == "" {
		record.ID = newID()
	}
	r.s.data.records[record.ID] = record
	return nil
}

func (r *recordRepository) detail(rec attendance.Record) attendance.RecordDetail {
	d := attendance.RecordDetail{Record: rec}
	if s, ok := r.s.data.students[rec.StudentID]; ok {
		d.StudentFirstName = s.FirstName
		d.StudentLastName = s.LastName
	}
	if c, ok := r.s.data.classes[rec.ClassID]; ok {
		d.ClassName = c.Name
	}
	return d
}

func sortDetails(details []attendance.RecordDetail) {
	sort.Slice(details, func(i, j int) bool {
		a, b := details[i], details[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if a.StudentFirstName != b.StudentFirstName {
			return a.StudentFirstName < b.StudentFirstName
		}
		if a.StudentLastName != b.StudentLastName {
			return a.StudentLastName < b.StudentLastName
		}
		return a.StudentID < b.StudentID
	})
}

func (r *recordRepository) List(ctx context.Context, filter attendance.RecordFilter) ([]attendance.RecordDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	from, to := period.DateOf(filter.From), period.DateOf(filter.To)
	out := []attendance.RecordDetail{}
	for _, rec := range r.s.data.records {
		if len(filter.ClassIDs) > 0 && !contains(filter.ClassIDs, rec.ClassID) {
			continue
		}
		if len(filter.StudentIDs) > 0 && !contains(filter.StudentIDs, rec.StudentID) {
			continue
		}
		if filter.RecordedBy != "" && rec.RecordedBy != filter.RecordedBy {
			continue
		}
		if !filter.From.IsZero() && rec.Date.Before(from) {
			continue
		}
		if !filter.To.IsZero() && rec.Date.After(to) {
			continue
		}
		out = append(out, r.detail(rec))
	}
	sortDetails(out)
	return out, nil
}

func (r *recordRepository) ListByClass(ctx context.Context, classID string) ([]attendance.RecordDetail, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []attendance.RecordDetail{}
	for _, rec := range r.s.data.records {
		if rec.ClassID == classID {
			out = append(out, r.detail(rec))
		}
	}
	sortDetails(out)
	return out, nil
}

type draftRepository struct {
	s *Store
}

func NewDraftRepository(s *Store) attendance.DraftRepository {
	return &draftRepository{s: s}
}

func sameDay(d attendance.Draft, teacherID, classID string, date time.Time) bool {
	return d.TeacherID == teacherID && d.ClassID == classID && d.Date.Equal(period.DateOf(date))
}

func (r *draftRepository) DeleteForDay(ctx context.Context, teacherID, classID string, date time.Time) error {
	defer r.s.lockWrite(ctx)()

	for id, d := range r.s.data.drafts {
		if sameDay(d, teacherID, classID, date) {
			delete(r.s.data.drafts, id)
		}
	}
	return nil
}

func (r *draftRepository) CreateMany(ctx context.Context, drafts []attendance.Draft) error {
	defer r.s.lockWrite(ctx)()

	for _, d := range drafts {
		if _, ok := r.s.data.students[d.StudentID]; !ok {
			return student.ErrStudentNotFound
		}
		d.Date = period.DateOf(d.Date)
		for _, existing := range r.s.data.drafts {
			if existing.StudentID == d.StudentID && sameDay(existing, d.TeacherID, d.ClassID, d.Date) {
				return attendance.ErrDuplicateDraft
			}
		}
		if d.ID == "" {
			d.ID = newID()
		}
		if d.UpdatedAt.IsZero() {
			d.UpdatedAt = time.Now()
		}
		r.s.data.drafts[d.ID] = d
	}
	return nil
}

func (r *draftRepository) ListForDay(ctx context.Context, teacherID, classID string, date time.Time) ([]attendance.Draft, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []attendance.Draft{}
	for _, d := range r.s.data.drafts {
		if sameDay(d, teacherID, classID, date) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

func (r *draftRepository) DeleteBefore(ctx context.Context, date time.Time) (int64, error) {
	defer r.s.lockWrite(ctx)()

	cutoff := period.DateOf(date)
	var n int64
	for id, d := range r.s.data.drafts {
		if d.Date.Before(cutoff) {
			delete(r.s.data.drafts, id)
			n++
		}
	}
	return n, nil
}

type teacherAttendanceRepository struct {
	s *Store
}

func NewTeacherAttendanceRepository(s *Store) attendance.TeacherAttendanceRepository {
	return &teacherAttendanceRepository{s: s}
}

func (r *teacherAttendanceRepository) Upsert(ctx context.Context, a attendance.TeacherAttendance) (attendance.TeacherAttendance, error) {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.users[a.TeacherID]; !ok {
		return attendance.TeacherAttendance{}, user.ErrUserNotFound
	}
	a.Date = period.DateOf(a.Date)

	for id, existing := range r.s.data.teacherAttendance {
		if existing.TeacherID == a.TeacherID && existing.Date.Equal(a.Date) {
			existing.Status = a.Status
			r.s.data.teacherAttendance[id] = existing
			return existing, nil
		}
	}
	if a.ID == "" {
		a.ID = newID()
	}
	r.s.data.teacherAttendance[a.ID] = a
	return a, nil
}

func (r *teacherAttendanceRepository) ListByTeacher(ctx context.Context, teacherID string, from, to time.Time) ([]attendance.TeacherAttendance, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	lo, hi := period.DateOf(from), period.DateOf(to)
	out := []attendance.TeacherAttendance{}
	for _, a := range r.s.data.teacherAttendance {
		if a.TeacherID == teacherID && !a.Date.Before(lo) && !a.Date.After(hi) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
