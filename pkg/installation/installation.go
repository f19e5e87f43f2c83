package installation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/acl"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/config"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/events"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/hooks"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/logger"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/memory"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/model"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/password"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server/store"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/validation"
)

// ACLName is the ACL scope seeded for the platform
const ACLName = "orchestra"

// BootstrapActions are granted to the administrator role on install
var BootstrapActions = []string{"Manage Orchestra", "Manage Users"}

var (
	// ErrDuplicateAdministrator is returned when users exist and multiple
	// administrators are not allowed
	ErrDuplicateAdministrator = errors.New(MessageDuplicate)
	// ErrAdminRoleNotFound is returned when the configured admin role id is not a stored role
	ErrAdminRoleNotFound = errors.New("admin role not found")
)

// Migrator applies the foundation schema
type Migrator interface {
	Foundation(ctx context.Context) error
}

// Validator checks input against rules
type Validator interface {
	Validate(input map[string]string, rules validation.Rules) error
}

// ACLFactory creates or fetches ACL containers by name
type ACLFactory interface {
	Make(name string) *acl.Container
}

// UserCreating is the payload of events.TopicUser. Listeners may modify
// User before it is persisted.
type UserCreating struct {
	User  *model.User
	Input Input
}

// ACLSeeded is the payload of events.TopicACL
type ACLSeeded struct {
	ACL *acl.Container
}

// Dependencies are the collaborators of an Installation. Users, Roles,
// Memory and Migrator are required; the rest default when nil.
type Dependencies struct {
	Validator Validator
	Users     store.UsersStore
	Roles     store.RolesStore
	Memory    memory.Store
	ACL       ACLFactory
	Migrator  Migrator
	Events    *events.Dispatcher
	Hooks     *hooks.Loader
	Config    *config.InstallerConfig
	Logger    *logger.Logger
}

// Installation runs the install steps
type Installation struct {
	mu sync.Mutex

	validator Validator
	users     store.UsersStore
	roles     store.RolesStore
	memory    memory.Store
	acl       ACLFactory
	migrator  Migrator
	events    *events.Dispatcher
	hooks     *hooks.Loader
	config    *config.InstallerConfig
	log       *logger.Logger
}

func New(deps Dependencies) *Installation {
	inst := &Installation{
		validator: deps.Validator,
		users:     deps.Users,
		roles:     deps.Roles,
		memory:    deps.Memory,
		acl:       deps.ACL,
		migrator:  deps.Migrator,
		events:    deps.Events,
		hooks:     deps.Hooks,
		config:    deps.Config,
		log:       deps.Logger,
	}
	if inst.validator == nil {
		inst.validator = validation.New()
	}
	if inst.acl == nil {
		inst.acl = acl.NewFactory()
	}
	if inst.events == nil {
		inst.events = events.NewDispatcher()
	}
	if inst.hooks == nil {
		inst.hooks = hooks.NewLoader()
	}
	if inst.config == nil {
		inst.config = config.NewDefault()
	}
	if inst.log == nil {
		inst.log = logger.Nop()
	}
	inst.log = inst.log.Named("installation")
	return inst
}

// Events returns the dispatcher install notifications are fired on
func (i *Installation) Events() *events.Dispatcher {
	return i.events
}

// BootInstallerFiles loads the hook file of the database and app paths when present
func (i *Installation) BootInstallerFiles() error {
	if err := i.hooks.Boot(i.config.HookPaths()); err != nil {
		return err
	}
	for _, m := range i.hooks.Manifests() {
		i.log.Debug().Str("path", m.Path).Int("actions", len(m.Actions)).Msg("installer hook loaded")
	}
	return nil
}

// Migrate runs the foundation migrations and fires events.TopicSchema
func (i *Installation) Migrate(ctx context.Context) (bool, error) {
	if err := i.migrator.Foundation(ctx); err != nil {
		return false, err
	}
	if err := i.events.Fire(ctx, events.TopicSchema, events.SchemaMigrated{}); err != nil {
		return false, err
	}
	i.log.Info().Msg("schema migrated")
	return true, nil
}

// Validate returns a *validation.Error when input breaks Rules
func (i *Installation) Validate(input Input) error {
	return i.validator.Validate(input.Fields(), Rules)
}

// HasNoExistingUser returns true when no user is stored, otherwise ErrDuplicateAdministrator
func (i *Installation) HasNoExistingUser(ctx context.Context) (bool, error) {
	exists, err := i.users.Exists(ctx)
	if err != nil {
		return false, err
	}
	if exists {
		return false, ErrDuplicateAdministrator
	}
	return true, nil
}

// CreateUser builds a verified administrator from input, fires
// events.TopicUser and persists the user
func (i *Installation) CreateUser(ctx context.Context, input Input) (*model.User, error) {
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:    input.Email,
		Password: hash,
		Fullname: input.Fullname,
		Status:   model.UserVerified,
	}

	if err := i.events.Fire(ctx, events.TopicUser, UserCreating{User: user, Input: input}); err != nil {
		return nil, err
	}

	if err := i.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Create seeds the administrator's role, the site settings and the
// platform ACL, then fires events.TopicACL
func (i *Installation) Create(ctx context.Context, user *model.User, input Input) error {
	adminID := i.config.Roles.Admin
	if adminID == 0 {
		adminID = config.DefaultAdminRoleID
	}

	roles, err := i.roles.List(ctx)
	if err != nil {
		return err
	}
	adminName, names := "", make([]string, 0, len(roles))
	for _, r := range roles {
		if acl.Slug(r.Name) == "" {
			i.log.Warn().Int64("role_id", r.ID).Str("role", r.Name).Msg("role name has no letters or digits, left out of the acl")
			continue
		}
		names = append(names, r.Name)
		if r.ID == adminID {
			adminName = r.Name
		}
	}
	if adminName == "" {
		return fmt.Errorf("%w: %d", ErrAdminRoleNotFound, adminID)
	}

	if err := i.users.SyncRoles(ctx, user.ID, []int64{adminID}); err != nil {
		return err
	}

	if err := i.seedSettings(ctx, input); err != nil {
		return err
	}

	container := i.acl.Make(ACLName)
	if err := container.Attach(ctx, i.memory); err != nil {
		return err
	}
	actions := append(append([]string(nil), BootstrapActions...), i.hooks.Actions()...)
	if err := container.Actions().Attach(actions...); err != nil {
		return err
	}
	if err := container.Roles().Attach(names...); err != nil {
		return err
	}
	if err := container.Allow(adminName, actions...); err != nil {
		return err
	}
	if err := container.Sync(ctx); err != nil {
		return err
	}

	if err := i.events.Fire(ctx, events.TopicACL, ACLSeeded{ACL: container}); err != nil {
		return err
	}

	return i.memory.Put(ctx, memory.KeyInstalled, true)
}

func (i *Installation) seedSettings(ctx context.Context, input Input) error {
	settings := []struct {
		key   string
		value interface{}
	}{
		{memory.KeySiteName, input.SiteName},
		{memory.KeySiteTheme, memory.DefaultTheme},
		{memory.KeyEmail, i.config.Mail},
		{memory.KeyEmailFrom, memory.EmailFrom{Name: input.SiteName, Address: input.Email}},
	}
	for _, s := range settings {
		if err := i.memory.Put(ctx, s.key, s.value); err != nil {
			return err
		}
	}

	for _, m := range i.hooks.Manifests() {
		keys := make([]string, 0, len(m.Settings))
		for key := range m.Settings {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if err := i.memory.Put(ctx, key, m.Settings[key]); err != nil {
				return err
			}
		}
	}
	return nil
}

// Make validates input and creates the administrator together with the
// base configuration. Unless allowMultiple is set it refuses to run when
// any user already exists. Attempts are serialized.
func (i *Installation) Make(ctx context.Context, input Input, allowMultiple bool) Outcome {
	i.mu.Lock()
	defer i.mu.Unlock()

	input = input.Normalize()

	if err := i.Validate(input); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			i.log.Debug().Strs("fields", verr.FieldNames()).Msg("administrator input rejected")
			return Outcome{FieldErrors: verr.Fields, Err: err}
		}
		return i.fail(err)
	}

	if !allowMultiple {
		if _, err := i.HasNoExistingUser(ctx); err != nil {
			return i.fail(err)
		}
	}

	user, err := i.CreateUser(ctx, input)
	if errors.Is(err, store.ErrUserExists) && allowMultiple {
		user, err = i.resumeUser(ctx, input)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			return i.fail(ErrDuplicateAdministrator)
		}
		return i.fail(err)
	}

	if err := i.Create(ctx, user, input); err != nil {
		i.log.Error().Err(err).Int64("user_id", user.ID).Msg("administrator created but setup failed")
		return failure(err)
	}

	i.log.Info().Int64("user_id", user.ID).Str("email", user.Email).Msg("administrator created")
	return success()
}

// resumeUser returns the account left behind by an attempt that failed
// after CreateUser, so Create can run again. The submitted password must
// match the stored one.
func (i *Installation) resumeUser(ctx context.Context, input Input) (*model.User, error) {
	user, err := i.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrDuplicateAdministrator
		}
		return nil, err
	}
	if !password.Verify(input.Password, user.Password) {
		return nil, ErrDuplicateAdministrator
	}
	i.log.Info().Int64("user_id", user.ID).Msg("resuming setup for existing administrator")
	return user, nil
}

// CreateAdmin is Make under its older name
func (i *Installation) CreateAdmin(ctx context.Context, input Input, allowMultiple bool) Outcome {
	return i.Make(ctx, input, allowMultiple)
}

func (i *Installation) fail(err error) Outcome {
	i.log.Warn().Err(err).Msg("installation failed")
	return failure(err)
}

// Installed reports whether an administrator exists and Create ran to the end
func (i *Installation) Installed(ctx context.Context) (bool, error) {
	exists, err := i.users.Exists(ctx)
	if err != nil || !exists {
		return false, err
	}

	var done bool
	err = i.memory.Get(ctx, memory.KeyInstalled, &done)
	switch {
	case errors.Is(err, memory.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	}
	return done, nil
}
