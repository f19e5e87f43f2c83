// Package installation sequences the first-run setup of the platform.
//
// An Installation is built from explicit dependencies and exposes the steps
// the wizard drives in order:
//
//	inst.BootInstallerFiles()
//	inst.Migrate(ctx)
//	outcome := inst.Make(ctx, input, cfg.AllowMultipleAdmins)
//
// Make is the only step that never returns an error: validation failures,
// the duplicate administrator guard and any persistence failure are folded
// into the returned Outcome. The lower level steps (Validate, CreateUser,
// HasNoExistingUser, Create) return errors and are meant to be called
// through Make.
//
// Nothing is rolled back once the administrator row exists. Create only
// performs set-like writes (role sync, setting upserts, ACL merges), so it
// can be re-run for an existing user.
package installation
