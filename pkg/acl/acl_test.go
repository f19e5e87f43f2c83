package acl

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/memory"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "manage-orchestra", Slug("Manage Orchestra"))
	assert.Equal(t, "administrator", Slug(" Administrator "))
	assert.Equal(t, "", Slug("  "))
	assert.Equal(t, "администратор", Slug("Администратор"))
	assert.Equal(t, "gérer-les-utilisateurs", Slug("Gérer les utilisateurs"))
	assert.Equal(t, "", Slug("!!!"))
}

func TestAttachNonASCIIRole(t *testing.T) {
	c := New("orchestra")
	require.NoError(t, c.Actions().Attach("Manage Orchestra"))
	require.NoError(t, c.Roles().Attach("Администратор", "Member"))
	require.NoError(t, c.Allow("Администратор", "Manage Orchestra"))

	assert.True(t, c.Can("администратор", "manage-orchestra"))
	assert.False(t, c.Can("Member", "Manage Orchestra"))
}

func TestFluentAttachIsIdempotent(t *testing.T) {
	c := New("orchestra")

	require.NoError(t, c.Actions().Attach("Manage Orchestra", "Manage Users"))
	require.NoError(t, c.Actions().Attach("manage orchestra"))

	assert.Equal(t, []string{"manage-orchestra", "manage-users"}, c.Actions().Get())
	assert.True(t, c.Actions().Has("Manage Users"))
	assert.ErrorIs(t, c.Actions().Attach(""), ErrEmptyKey)
}

func TestAllowRequiresKnownRoleAndAction(t *testing.T) {
	c := New("orchestra")
	require.NoError(t, c.Actions().Attach("Manage Orchestra"))
	require.NoError(t, c.Roles().Attach("Administrator"))

	assert.ErrorIs(t, c.Allow("Member", "Manage Orchestra"), ErrRoleNotFound)
	assert.ErrorIs(t, c.Allow("Administrator", "Manage Users"), ErrActionNotFound)

	require.NoError(t, c.Allow("Administrator", "Manage Orchestra"))
	assert.True(t, c.Can("administrator", "manage-orchestra"))
	assert.False(t, c.Can("Member", "Manage Orchestra"))

	require.NoError(t, c.Deny("Administrator", "Manage Orchestra"))
	assert.False(t, c.Can("Administrator", "Manage Orchestra"))
}

func TestAttachPersistsAndMerges(t *testing.T) {
	ctx := context.Background()
	store := memory.NewRuntimeStore()
	require.NoError(t, store.Put(ctx, memory.ACLKey("orchestra"), State{
		Actions: []string{"manage-reports"},
		Roles:   []string{"member"},
		ACL:     map[string]bool{"member:manage-reports": true},
	}))

	c := New("orchestra")
	require.NoError(t, c.Attach(ctx, store))
	require.NoError(t, c.Actions().Attach("Manage Orchestra"))
	require.NoError(t, c.Roles().Attach("Administrator"))
	require.NoError(t, c.Allow("Administrator", "Manage Orchestra"))
	require.NoError(t, c.Sync(ctx))

	var saved State
	require.NoError(t, store.Get(ctx, memory.ACLKey("orchestra"), &saved))
	assert.Equal(t, []string{"manage-reports", "manage-orchestra"}, saved.Actions)
	assert.Equal(t, []string{"member", "administrator"}, saved.Roles)
	assert.True(t, saved.ACL["member:manage-reports"])
	assert.True(t, saved.ACL["administrator:manage-orchestra"])
	assert.Equal(t, []string{"manage-orchestra"}, c.Granted("Administrator"))
}

func TestAttachToSecondStoreFails(t *testing.T) {
	ctx := context.Background()
	c := New("orchestra")
	require.NoError(t, c.Attach(ctx, memory.NewRuntimeStore()))
	assert.ErrorIs(t, c.Attach(ctx, memory.NewRuntimeStore()), ErrAlreadyAttached)
}

type failingStore struct{ memory.Store }

func (failingStore) Get(context.Context, string, interface{}) error {
	return errors.New("connection refused")
}

func TestAttachLoadFailure(t *testing.T) {
	err := New("orchestra").Attach(context.Background(), failingStore{})
	assert.ErrorContains(t, err, "load acl orchestra")
}

func TestSyncWithoutMemoryIsNoop(t *testing.T) {
	assert.NoError(t, New("orchestra").Sync(context.Background()))
}

func TestFactoryReturnsSameContainer(t *testing.T) {
	f := NewFactory()
	a := f.Make("orchestra")
	b := f.Make("orchestra")
	assert.Same(t, a, b)
	assert.NotSame(t, a, f.Make("other"))
}
