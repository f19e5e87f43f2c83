// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// Queries are written as raw SQL against the tables created by the embedded
// migrations in db/migrations.
package gorm
