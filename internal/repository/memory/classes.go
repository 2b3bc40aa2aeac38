package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
)

type classRepository struct {
	s *Store
}

func NewClassRepository(s *Store) class.ClassRepository {
	return &classRepository{s: s}
}

func (r *classRepository) gradeTaken(gradeLevel, excludeID string) bool {
	for id, c := range r.s.data.classes {
		if id != excludeID && c.GradeLevel == gradeLevel {
			return true
		}
	}
	return false
}

func (r *classRepository) Create(ctx context.Context, c class.Class) (class.Class, error) {
	defer r.s.lockWrite(ctx)()

	if r.gradeTaken(c.GradeLevel, "") {
		return class.Class{}, class.ErrGradeLevelExists
	}
	if c.TeacherID != nil {
		if _, ok := r.s.data.users[*c.TeacherID]; !ok {
			return class.Class{}, user.ErrUserNotFound
		}
	}
	if c.ID == "" {
		c.ID = newID()
	}
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	r.s.data.classes[c.ID] = c
	return c, nil
}

func (r *classRepository) GetByID(ctx context.Context, id string) (class.Class, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.data.classes[id]
	if !ok {
		return class.Class{}, class.ErrClassNotFound
	}
	return c, nil
}

func (r *classRepository) GetStats(ctx context.Context, id string) (class.ClassStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.data.classes[id]
	if !ok {
		return class.ClassStats{}, class.ErrClassNotFound
	}
	return r.stats(c), nil
}

func (r *classRepository) ExistsByGradeLevel(ctx context.Context, gradeLevel string, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.gradeTaken(gradeLevel, excludeID), nil
}

func (r *classRepository) Update(ctx context.Context, c class.Class) error {
	defer r.s.lockWrite(ctx)()

	current, ok := r.s.data.classes[c.ID]
	if !ok {
		return class.ErrClassNotFound
	}
	if r.gradeTaken(c.GradeLevel, c.ID) {
		return class.ErrGradeLevelExists
	}
	current.Name = c.Name
	current.GradeLevel = c.GradeLevel
	current.TeacherID = c.TeacherID
	current.UpdatedAt = time.Now()
	r.s.data.classes[c.ID] = current
	return nil
}

func (r *classRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.classes[id]; !ok {
		return class.ErrClassNotFound
	}
	for sid, st := range r.s.data.students {
		if st.ClassID == id {
			r.s.data.deleteStudent(sid)
		}
	}
	for rid, rec := range r.s.data.records {
		if rec.ClassID == id {
			delete(r.s.data.records, rid)
		}
	}
	for did, d := range r.s.data.drafts {
		if d.ClassID == id {
			delete(r.s.data.drafts, did)
		}
	}
	delete(r.s.data.classes, id)
	return nil
}

func (r *classRepository) stats(c class.Class) class.ClassStats {
	cs := class.ClassStats{Class: c}
	if c.TeacherID != nil {
		if t, ok := r.s.data.users[*c.TeacherID]; ok {
			name := t.FullName()
			cs.TeacherName = &name
		}
	}
	for _, st := range r.s.data.students {
		if st.ClassID == c.ID {
			cs.StudentCount++
		}
	}
	for _, rec := range r.s.data.records {
		if rec.ClassID != c.ID {
			continue
		}
		cs.RecordCount++
		if rec.Status == attendance.StatusPresent {
			cs.PresentCount++
		}
	}
	return cs
}

func (r *classRepository) list(keep func(class.Class) bool) []class.ClassStats {
	out := []class.ClassStats{}
	for _, c := range r.s.data.classes {
		if keep(c) {
			out = append(out, r.stats(c))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *classRepository) List(ctx context.Context) ([]class.ClassStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(class.Class) bool { return true }), nil
}

func (r *classRepository) ListByTeacher(ctx context.Context, teacherID string) ([]class.ClassStats, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.list(func(c class.Class) bool { return c.AssignedTo(teacherID) }), nil
}

func (r *classRepository) UnassignTeacher(ctx context.Context, teacherID string) error {
	defer r.s.lockWrite(ctx)()

	for id, c := range r.s.data.classes {
		if c.AssignedTo(teacherID) {
			c.TeacherID = nil
			c.UpdatedAt = time.Now()
			r.s.data.classes[id] = c
		}
	}
	return nil
}

func (r *classRepository) AssignTeacher(ctx context.Context, classID string, teacherID *string) error {
	defer r.s.lockWrite(ctx)()

	c, ok := r.s.data.classes[classID]
	if !ok {
		return class.ErrClassNotFound
	}
	if teacherID != nil {
		if _, ok := r.s.data.users[*teacherID]; !ok {
			return user.ErrUserNotFound
		}
	}
	c.TeacherID = teacherID
	c.UpdatedAt = time.Now()
	r.s.data.classes[classID] = c
	return nil
}
