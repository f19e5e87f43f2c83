// Package requirement runs the readiness checklist shown before installing.
package requirement

import (
	"context"
	"fmt"
	"os"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/config"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server/store"
)

// Check names
const (
	DatabaseConnection = "databaseConnection"
	WritableStorage    = "writableStorage"
	AuthDriver         = "authDriver"
)

// Check is one checklist entry
type Check struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Passed bool   `json:"passed"`
	// Explicit checks must pass for the installation to proceed
	Explicit bool   `json:"explicit"`
	Message  string `json:"message,omitempty"`
}

// Checklist is the result of Requirement.Check
type Checklist struct {
	Checks      []Check `json:"checks"`
	Installable bool    `json:"installable"`
}

// Get returns the named check
func (c Checklist) Get(name string) (Check, bool) {
	for _, check := range c.Checks {
		if check.Name == name {
			return check, true
		}
	}
	return Check{}, false
}

type Requirement struct {
	health store.HealthStore
	config *config.InstallerConfig
}

func New(health store.HealthStore, cfg *config.InstallerConfig) *Requirement {
	return &Requirement{health: health, config: cfg}
}

// Check runs every check. The list is installable when all explicit checks pass.
func (r *Requirement) Check(ctx context.Context) Checklist {
	checks := []Check{
		r.checkDatabaseConnection(ctx),
		r.checkWritableStorage(),
		r.checkAuthDriver(),
	}

	installable := true
	for _, c := range checks {
		if c.Explicit && !c.Passed {
			installable = false
		}
	}
	return Checklist{Checks: checks, Installable: installable}
}

func (r *Requirement) checkDatabaseConnection(ctx context.Context) Check {
	c := Check{Name: DatabaseConnection, Label: "Database connection", Explicit: true}
	if err := r.health.CheckConnectivity(ctx); err != nil {
		c.Message = err.Error()
		return c
	}
	c.Passed = true
	return c
}

func (r *Requirement) checkWritableStorage() Check {
	c := Check{Name: WritableStorage, Label: "Writable storage directory", Explicit: true}
	if err := writable(r.config.StoragePath); err != nil {
		c.Message = err.Error()
		return c
	}
	c.Passed = true
	return c
}

func (r *Requirement) checkAuthDriver() Check {
	c := Check{Name: AuthDriver, Label: "Authentication driver", Explicit: true}
	if !r.config.IsAuthDriverSupported() {
		c.Message = fmt.Sprintf("auth driver %q is not supported, use one of %v", r.config.Auth.Driver, config.SupportedAuthDrivers)
		return c
	}
	c.Passed = true
	return c
}

func writable(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, ".orchestra-check-*")
	if err != nil {
		return fmt.Errorf("%s is not writable", dir)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
