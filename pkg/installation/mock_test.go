package installation

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/memory"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/model"
)

// MockUsersStore implements store.UsersStore for testing using testify/mock
type MockUsersStore struct {
	mock.Mock
}

func (m *MockUsersStore) Exists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

func (m *MockUsersStore) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUsersStore) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUsersStore) SyncRoles(ctx context.Context, userID int64, roleIDs []int64) error {
	args := m.Called(ctx, userID, roleIDs)
	return args.Error(0)
}

// MockRolesStore implements store.RolesStore for testing using testify/mock
type MockRolesStore struct {
	mock.Mock
}

func (m *MockRolesStore) List(ctx context.Context) ([]model.Role, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Role), args.Error(1)
}

// countingMigrator records how often the foundation set was requested
type countingMigrator struct {
	calls int
	err   error
}

func (m *countingMigrator) Foundation(ctx context.Context) error {
	m.calls++
	return m.err
}

// failingMemory refuses to store one key
type failingMemory struct {
	*memory.RuntimeStore
	key string
}

func (m *failingMemory) Put(ctx context.Context, key string, value interface{}) error {
	if key == m.key {
		return errors.New("settings table is read-only")
	}
	return m.RuntimeStore.Put(ctx, key, value)
}
