package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/model"
)

// ErrUserExists is returned when a user with the same email is already stored
var ErrUserExists = errors.New("a user with this email already exists")

// ErrUserNotFound is returned when no user has the requested email
var ErrUserNotFound = errors.New("user not found")

// UsersStore abstracts user account storage
type UsersStore interface {
	// Exists reports whether any user account is stored
	Exists(ctx context.Context) (bool, error)

	// Create persists user and fills in its generated ID and timestamps
	Create(ctx context.Context, user *model.User) error

	// FindByEmail returns the user registered with email.
	// Returns ErrUserNotFound if there is none.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// SyncRoles makes roleIDs the exact set of roles assigned to the user
	SyncRoles(ctx context.Context, userID int64, roleIDs []int64) error
}
