package main

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/acl"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/audit"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/config"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/db"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/events"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/hooks"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/installation"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/logger"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/memory"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/migrator"
	gormstore "github.com/doodlesbykumbi/orchestra-installer/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/validation"
)

// app holds the wired installer shared by the server and install commands
type app struct {
	config *config.InstallerConfig
	db     *gorm.DB
	log    *logger.Logger
	inst   *installation.Installation
	health *gormstore.HealthStore

	unsubscribeAudit func()
}

func newApp() (*app, error) {
	log := logger.FromEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	dispatcher := events.NewDispatcher()
	inst := installation.New(installation.Dependencies{
		Validator: validation.New(),
		Users:     gormstore.NewUsersStore(conn),
		Roles:     gormstore.NewRolesStore(conn),
		Memory:    memory.NewGormStore(conn),
		ACL:       acl.NewFactory(),
		Migrator:  migrator.New(db.URL()),
		Events:    dispatcher,
		Hooks:     hooks.NewLoader(),
		Config:    cfg,
		Logger:    log,
	})

	return &app{
		config:           cfg,
		db:               conn,
		log:              log,
		inst:             inst,
		health:           gormstore.NewHealthStore(conn),
		unsubscribeAudit: audit.Subscribe(dispatcher, audit.Log),
	}, nil
}

func (a *app) Close() {
	a.unsubscribeAudit()
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
