package user

import (
	"context"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	// ExistsByEmail ignores the user with excludeID so an update can keep its own address.
	ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error)
	// Update writes the profile fields. The password hash is only changed through UpdatePassword.
	Update(ctx context.Context, u User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	// ListByRole returns users ordered by last name, then first name.
	ListByRole(ctx context.Context, role Role) ([]User, error)
}
