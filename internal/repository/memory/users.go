package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/cmlabs-hris/school-attendance-go/internal/domain/user"
)

type userRepository struct {
	s *Store
}

func NewUserRepository(s *Store) user.UserRepository {
	return &userRepository{s: s}
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.data.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	defer r.s.lockWrite(ctx)()

	if r.emailTaken(newUser.Email, "") {
		return user.User{}, user.ErrEmailAlreadyExists
	}
	if newUser.ID == "" {
		newUser.ID = newID()
	}
	now := time.Now()
	newUser.CreatedAt, newUser.UpdatedAt = now, now
	r.s.data.users[newUser.ID] = newUser
	return newUser, nil
}

func (r *userRepository) emailTaken(email, excludeID string) bool {
	for id, u := range r.s.data.users {
		if id != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.emailTaken(email, excludeID), nil
}

func (r *userRepository) Update(ctx context.Context, u user.User) error {
	defer r.s.lockWrite(ctx)()

	current, ok := r.s.data.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	if r.emailTaken(u.Email, u.ID) {
		return user.ErrEmailAlreadyExists
	}
	current.Email = u.Email
	current.FirstName = u.FirstName
	current.LastName = u.LastName
	current.UpdatedAt = time.Now()
	r.s.data.users[u.ID] = current
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	defer r.s.lockWrite(ctx)()

	u, ok := r.s.data.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	r.s.data.users[userID] = u
	return nil
}

func (r *userRepository) ListByRole(ctx context.Context, role user.Role) ([]user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := []user.User{}
	for _, u := range r.s.data.users {
		if u.Role == role {
			users = append(users, u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		return users[i].FirstName < users[j].FirstName
	})
	return users, nil
}
