// Package store provides storage abstractions for the installer.
//
// This package defines interfaces for database operations, allowing the
// installation service and HTTP endpoints to be decoupled from the specific
// database implementation. GORM implementations live in the gorm
// subpackage.
//
// # Available Stores
//
//   - UsersStore: administrator account creation and role assignment
//   - RolesStore: role listing
//   - HealthStore: database connectivity checks
//
// # Usage
//
//	users := gorm.NewUsersStore(db)
//	if err := users.Create(ctx, user); err != nil {
//	    if errors.Is(err, store.ErrUserExists) {
//	        // Handle duplicate email
//	    }
//	}
package store
