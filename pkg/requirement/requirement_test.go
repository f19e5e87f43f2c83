package requirement

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/config"
)

type stubHealth struct{ err error }

func (s stubHealth) CheckConnectivity(ctx context.Context) error { return s.err }

func TestCheckInstallable(t *testing.T) {
	cfg := config.NewDefault()
	cfg.StoragePath = t.TempDir()

	list := New(stubHealth{}, cfg).Check(context.Background())

	assert.True(t, list.Installable)
	require.Len(t, list.Checks, 3)
	for _, c := range list.Checks {
		assert.True(t, c.Passed, c.Name)
	}
}

func TestCheckFailures(t *testing.T) {
	cfg := config.NewDefault()
	cfg.StoragePath = filepath.Join(t.TempDir(), "missing")
	cfg.Auth.Driver = "fluent"

	list := New(stubHealth{err: errors.New("connection refused")}, cfg).Check(context.Background())

	assert.False(t, list.Installable)

	db, ok := list.Get(DatabaseConnection)
	require.True(t, ok)
	assert.False(t, db.Passed)
	assert.Equal(t, "connection refused", db.Message)

	storage, _ := list.Get(WritableStorage)
	assert.False(t, storage.Passed)

	auth, _ := list.Get(AuthDriver)
	assert.False(t, auth.Passed)
	assert.Contains(t, auth.Message, `"fluent"`)
}
