package gorm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/model"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server/store"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return gormDB, mock
}

type pgError struct{ code string }

func (e pgError) Error() string    { return "pq: duplicate key value violates unique constraint" }
func (e pgError) SQLState() string { return e.code }

func TestUsersStoreExists(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)

	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM users\)`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := s.Exists(context.Background())
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreExistsError(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("relation \"users\" does not exist"))

	_, err := s.Exists(context.Background())
	assert.ErrorContains(t, err, "check existing users")
}

func TestUsersStoreCreate(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO users \(email, password, fullname, status\)`).
		WithArgs("admin@orchestraplatform.com", "$2a$10$hash", "Administrator", model.UserVerified).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	user := &model.User{
		Email:    "admin@orchestraplatform.com",
		Password: "$2a$10$hash",
		Fullname: "Administrator",
		Status:   model.UserVerified,
	}
	require.NoError(t, s.Create(context.Background(), user))

	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreCreateDuplicate(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(pgError{code: uniqueViolation})

	err := s.Create(context.Background(), &model.User{Email: "admin@orchestraplatform.com"})
	assert.ErrorIs(t, err, store.ErrUserExists)
}

func TestUsersStoreFindByEmail(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)
	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(`SELECT id, email, password, fullname, status, created_at, updated_at\s+FROM users WHERE email = \$1`).
		WithArgs("admin@orchestraplatform.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "fullname", "status", "created_at", "updated_at"}).
			AddRow(int64(4), "admin@orchestraplatform.com", "$2a$10$hash", "Administrator", int64(1), now, now))

	user, err := s.FindByEmail(context.Background(), "admin@orchestraplatform.com")
	require.NoError(t, err)
	assert.Equal(t, int64(4), user.ID)
	assert.Equal(t, model.UserVerified, user.Status)
	assert.Equal(t, "$2a$10$hash", user.Password)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreFindByEmailNotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)

	mock.ExpectQuery(`FROM users WHERE email`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "fullname", "status", "created_at", "updated_at"}))

	_, err := s.FindByEmail(context.Background(), "nobody@orchestraplatform.com")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUsersStoreSyncRoles(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_role WHERE user_id = \$1 AND role_id NOT IN`).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO user_role \(user_id, role_id\)`).
		WithArgs(int64(7), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.SyncRoles(context.Background(), 7, []int64{1}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUsersStoreSyncRolesRollsBack(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewUsersStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM user_role`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO user_role`).WillReturnError(errors.New("violates foreign key constraint"))
	mock.ExpectRollback()

	err := s.SyncRoles(context.Background(), 7, []int64{99})
	assert.ErrorContains(t, err, "attach role 99")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRolesStoreList(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewRolesStore(db)
	now := time.Now()

	mock.ExpectQuery(`SELECT id, name, created_at FROM roles ORDER BY id`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(int64(1), "Administrator", now).
			AddRow(int64(2), "Member", now))

	roles, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "Administrator", roles[0].Name)
	assert.Equal(t, int64(2), roles[1].ID)
}

func TestHealthStoreCheckConnectivity(t *testing.T) {
	db, mock := setupTestDB(t)
	s := NewHealthStore(db)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity(context.Background()))

	mock.ExpectExec(`SELECT 1`).WillReturnError(errors.New("connection refused"))
	assert.Error(t, s.CheckConnectivity(context.Background()))
}
