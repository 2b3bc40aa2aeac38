package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
)

type studentRepository struct {
	s *Store
}

func NewStudentRepository(s *Store) student.StudentRepository {
	return &studentRepository{s: s}
}

// deleteStudent removes a student and everything hanging off it. Callers hold the write lock.
func (st *state) deleteStudent(id string) {
	for rid, rec := range st.records {
		if rec.StudentID == id {
			delete(st.records, rid)
		}
	}
	for did, d := range st.drafts {
		if d.StudentID == id {
			delete(st.drafts, did)
		}
	}
	delete(st.students, id)
}

func (r *studentRepository) withClass(s student.Student) student.Student {
	if c, ok := r.s.data.classes[s.ClassID]; ok {
		s.ClassName = c.Name
		s.GradeLevel = c.GradeLevel
	}
	return s
}

func (r *studentRepository) rollTaken(classID, rollNumber, excludeID string) bool {
	for id, s := range r.s.data.students {
		if id != excludeID && s.ClassID == classID && s.RollNumber == rollNumber {
			return true
		}
	}
	return false
}

func (r *studentRepository) Create(ctx context.Context, s student.Student) (student.Student, error) {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.classes[s.ClassID]; !ok {
		return student.Student{}, class.ErrClassNotFound
	}
	if r.rollTaken(s.ClassID, s.RollNumber, "") {
		return student.Student{}, student.ErrRollNumberExists
	}
	if s.ID == "" {
		s.ID = newID()
	}
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now
	s.ClassName, s.GradeLevel = "", ""
	r.s.data.students[s.ID] = s
	return r.withClass(s), nil
}

func (r *studentRepository) GetByID(ctx context.Context, id string) (student.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	s, ok := r.s.data.students[id]
	if !ok {
		return student.Student{}, student.ErrStudentNotFound
	}
	return r.withClass(s), nil
}

func (r *studentRepository) Update(ctx context.Context, s student.Student) error {
	defer r.s.lockWrite(ctx)()

	current, ok := r.s.data.students[s.ID]
	if !ok {
		return student.ErrStudentNotFound
	}
	if _, ok := r.s.data.classes[s.ClassID]; !ok {
		return class.ErrClassNotFound
	}
	if r.rollTaken(s.ClassID, s.RollNumber, s.ID) {
		return student.ErrRollNumberExists
	}
	current.FirstName = s.FirstName
	current.LastName = s.LastName
	current.RollNumber = s.RollNumber
	current.ClassID = s.ClassID
	current.UpdatedAt = time.Now()
	r.s.data.students[s.ID] = current
	return nil
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	defer r.s.lockWrite(ctx)()

	if _, ok := r.s.data.students[id]; !ok {
		return student.ErrStudentNotFound
	}
	r.s.data.deleteStudent(id)
	return nil
}

func (r *studentRepository) List(ctx context.Context) ([]student.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []student.Student{}
	for _, s := range r.s.data.students {
		out = append(out, r.withClass(s))
	}
	sortByName(out)
	return out, nil
}

func (r *studentRepository) ListByClasses(ctx context.Context, classIDs []string) ([]student.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := []student.Student{}
	for _, s := range r.s.data.students {
		if contains(classIDs, s.ClassID) {
			out = append(out, r.withClass(s))
		}
	}
	sortByName(out)
	return out, nil
}

func sortByName(students []student.Student) {
	sort.Slice(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		return a.ID < b.ID
	})
}

func (r *studentRepository) ExistsByRollNumber(ctx context.Context, classID, rollNumber, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.rollTaken(classID, rollNumber, excludeID), nil
}

func (r *studentRepository) Count(ctx context.Context) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.data.students), nil
}
