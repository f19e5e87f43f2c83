package store

import (
	"context"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/model"
)

// RolesStore abstracts read access to roles
type RolesStore interface {
	// List returns every role ordered by id
	List(ctx context.Context) ([]model.Role, error)
}
