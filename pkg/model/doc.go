// Package model defines the database models for the installer.
//
// This package contains GORM models that map to the platform schema created
// by the foundation migrations in db/migrations.
//
// # Core Models
//
//   - User: accounts, including the administrator created at install time
//   - Role: named roles (Administrator and Member are seeded by migration)
//   - UserRole: user to role assignments
//   - Option: key/value rows backing the settings memory
//
// # Database Schema
//
//   - users: user accounts, unique on email
//   - roles: role names
//   - user_role: role assignments
//   - orchestra_options: JSON encoded settings values
package model
