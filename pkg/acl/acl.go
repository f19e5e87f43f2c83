// Package acl is the role/action permission container seeded at install time.
//
// A Container is identified by a scope name ("orchestra"), holds a set of
// actions, a set of roles and the role->action grants between them, and is
// persisted into the settings memory under memory.ACLKey(name).
package acl

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/memory"
)

var (
	// ErrRoleNotFound is returned when granting to a role that was never attached
	ErrRoleNotFound = errors.New("acl role not found")
	// ErrActionNotFound is returned when granting an action that was never attached
	ErrActionNotFound = errors.New("acl action not found")
	// ErrAlreadyAttached is returned when attaching a second memory store
	ErrAlreadyAttached = errors.New("acl is already attached to a memory store")
)

// State is the persisted shape of a Container
type State struct {
	Actions []string        `json:"actions"`
	Roles   []string        `json:"roles"`
	ACL     map[string]bool `json:"acl"`
}

// Container holds the actions, roles and grants of one ACL scope
type Container struct {
	mu      sync.Mutex
	name    string
	actions *Fluent
	roles   *Fluent
	grants  map[string]bool
	memory  memory.Store
}

// New creates an empty, unattached container
func New(name string) *Container {
	return &Container{
		name:    name,
		actions: newFluent(),
		roles:   newFluent(),
		grants:  make(map[string]bool),
	}
}

func (c *Container) Name() string {
	return c.name
}

func (c *Container) Actions() *Fluent {
	return c.actions
}

func (c *Container) Roles() *Fluent {
	return c.roles
}

// Attach binds the container to a memory store. Any state already persisted
// for this scope is merged in before the merged state is written back.
func (c *Container) Attach(ctx context.Context, store memory.Store) error {
	c.mu.Lock()
	if c.memory != nil && c.memory != store {
		c.mu.Unlock()
		return ErrAlreadyAttached
	}
	c.memory = store
	c.mu.Unlock()

	var persisted State
	err := store.Get(ctx, memory.ACLKey(c.name), &persisted)
	switch {
	case errors.Is(err, memory.ErrNotFound):
	case err != nil:
		return fmt.Errorf("load acl %s: %w", c.name, err)
	default:
		if err := c.actions.Attach(persisted.Actions...); err != nil {
			return err
		}
		if err := c.roles.Attach(persisted.Roles...); err != nil {
			return err
		}
		c.mu.Lock()
		for key, allowed := range persisted.ACL {
			if _, ok := c.grants[key]; !ok {
				c.grants[key] = allowed
			}
		}
		c.mu.Unlock()
	}

	return c.Sync(ctx)
}

// Allow grants every action to role
func (c *Container) Allow(role string, actions ...string) error {
	return c.assign(role, actions, true)
}

// Deny revokes every action from role
func (c *Container) Deny(role string, actions ...string) error {
	return c.assign(role, actions, false)
}

func (c *Container) assign(role string, actions []string, allow bool) error {
	if !c.roles.Has(role) {
		return fmt.Errorf("%w: %s", ErrRoleNotFound, role)
	}
	for _, action := range actions {
		if !c.actions.Has(action) {
			return fmt.Errorf("%w: %s", ErrActionNotFound, action)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, action := range actions {
		c.grants[grantKey(role, action)] = allow
	}
	return nil
}

// Can reports whether role has been granted action
func (c *Container) Can(role, action string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.grants[grantKey(role, action)]
}

// State returns a snapshot of the container
func (c *Container) State() State {
	c.mu.Lock()
	grants := make(map[string]bool, len(c.grants))
	for k, v := range c.grants {
		grants[k] = v
	}
	c.mu.Unlock()

	return State{
		Actions: c.actions.Get(),
		Roles:   c.roles.Get(),
		ACL:     grants,
	}
}

// Granted returns the allowed actions of role, sorted
func (c *Container) Granted(role string) []string {
	var out []string
	for _, action := range c.actions.Get() {
		if c.Can(role, action) {
			out = append(out, action)
		}
	}
	sort.Strings(out)
	return out
}

// Sync persists the current state. It is a no-op until the container is attached.
func (c *Container) Sync(ctx context.Context) error {
	c.mu.Lock()
	store := c.memory
	c.mu.Unlock()
	if store == nil {
		return nil
	}
	if err := store.Put(ctx, memory.ACLKey(c.name), c.State()); err != nil {
		return fmt.Errorf("sync acl %s: %w", c.name, err)
	}
	return nil
}

func grantKey(role, action string) string {
	return Slug(role) + ":" + Slug(action)
}
