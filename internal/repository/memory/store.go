// Package memory is an in-process implementation of every repository, used by
// service and handler tests. It enforces the same unique keys and cascades as
// the Postgres schema.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/class"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/student"
	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
	"github.com/google/uuid"
)

type refreshToken struct {
	userID    string
	expiresAt time.Time
	revokedAt *time.Time
}

type state struct {
	users             map[string]user.User
	classes           map[string]class.Class
	students          map[string]student.Student
	records           map[string]attendance.Record
	drafts            map[string]attendance.Draft
	teacherAttendance map[string]attendance.TeacherAttendance
	tokens            map[string]refreshToken
}

func newState() *state {
	return &state{
		users:             make(map[string]user.User),
		classes:           make(map[string]class.Class),
		students:          make(map[string]student.Student),
		records:           make(map[string]attendance.Record),
		drafts:            make(map[string]attendance.Draft),
		teacherAttendance: make(map[string]attendance.TeacherAttendance),
		tokens:            make(map[string]refreshToken),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		users:             cloneMap(s.users),
		classes:           cloneMap(s.classes),
		students:          cloneMap(s.students),
		records:           cloneMap(s.records),
		drafts:            cloneMap(s.drafts),
		teacherAttendance: cloneMap(s.teacherAttendance),
		tokens:            cloneMap(s.tokens),
	}
}

// Store holds all tables. Its zero value is not usable; call NewStore.
//
// Units of work run one at a time. A write made outside a unit of work waits for
// the running one to finish, so a rollback restores only what that unit wrote.
type Store struct {
	mu   sync.RWMutex
	data *state

	// txMu is held for the whole of a unit of work and for each standalone write.
	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{data: newState()}
}

type txKey struct{}

// WithinTransaction snapshots every table, runs fn and restores the snapshot if fn fails.
// Nested calls join the outer unit of work.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, nested := ctx.Value(txKey{}).(bool); nested {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// lockWrite takes the table lock for one write and returns its release.
func (s *Store) lockWrite(ctx context.Context) func() {
	if _, inTx := ctx.Value(txKey{}).(bool); inTx {
		s.mu.Lock()
		return s.mu.Unlock
	}
	s.txMu.Lock()
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		s.txMu.Unlock()
	}
}

// Counts reports table sizes. Tests use it to assert that a failed call wrote nothing.
type Counts struct {
	Users, Classes, Students, Records, Drafts, TeacherAttendance, Tokens int
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Users:             len(s.data.users),
		Classes:           len(s.data.classes),
		Students:          len(s.data.students),
		Records:           len(s.data.records),
		Drafts:            len(s.data.drafts),
		TeacherAttendance: len(s.data.teacherAttendance),
		Tokens:            len(s.data.tokens),
	}
}

func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
