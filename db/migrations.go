// Package db embeds the SQL migrations that create the platform schema.
package db

import "embed"

// Migrations holds the foundation migration set, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS
