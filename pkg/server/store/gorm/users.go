package gorm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/model"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server/store"
)

// Ensure UsersStore implements store.UsersStore
var _ store.UsersStore = (*UsersStore)(nil)

// uniqueViolation is the postgres SQLSTATE for a unique index conflict
const uniqueViolation = "23505"

// UsersStore implements store.UsersStore using GORM
type UsersStore struct {
	db *gorm.DB
}

// NewUsersStore creates a new UsersStore
func NewUsersStore(db *gorm.DB) *UsersStore {
	return &UsersStore{db: db}
}

// Exists reports whether any user account is stored
func (s *UsersStore) Exists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.WithContext(ctx).Raw(`SELECT EXISTS(SELECT 1 FROM users)`).Scan(&exists).Error
	if err != nil {
		return false, fmt.Errorf("check existing users: %w", err)
	}
	return exists, nil
}

// Create inserts user and reads back its generated columns
func (s *UsersStore) Create(ctx context.Context, user *model.User) error {
	row := s.db.WithContext(ctx).Raw(`
		INSERT INTO users (email, password, fullname, status)
		VALUES (?, ?, ?, ?)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Password, user.Fullname, user.Status).Row()

	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return store.ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByEmail loads the user registered with email
func (s *UsersStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.WithContext(ctx).Raw(`
		SELECT id, email, password, fullname, status, created_at, updated_at
		FROM users WHERE email = ?
	`, email).Row()

	var user model.User
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Fullname, &user.Status, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// SyncRoles removes roles not in roleIDs and adds the missing ones
func (s *UsersStore) SyncRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if len(roleIDs) == 0 {
			err = tx.Exec(`DELETE FROM user_role WHERE user_id = ?`, userID).Error
		} else {
			err = tx.Exec(`DELETE FROM user_role WHERE user_id = ? AND role_id NOT IN ?`, userID, roleIDs).Error
		}
		if err != nil {
			return fmt.Errorf("detach roles: %w", err)
		}

		for _, roleID := range roleIDs {
			err := tx.Exec(`
				INSERT INTO user_role (user_id, role_id) VALUES (?, ?)
				ON CONFLICT (user_id, role_id) DO NOTHING
			`, userID, roleID).Error
			if err != nil {
				return fmt.Errorf("attach role %d: %w", roleID, err)
			}
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	return errors.As(err, &pgErr) && pgErr.SQLState() == uniqueViolation
}
