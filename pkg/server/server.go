package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/config"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/db"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/flash"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/installation"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/logger"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/requirement"
)

// Installer is the part of installation.Installation the wizard drives
type Installer interface {
	BootInstallerFiles() error
	Migrate(ctx context.Context) (bool, error)
	Make(ctx context.Context, input installation.Input, allowMultiple bool) installation.Outcome
	Installed(ctx context.Context) (bool, error)
}

// Checker runs the readiness checklist
type Checker interface {
	Check(ctx context.Context) requirement.Checklist
}

type Server struct {
	Router      *mux.Router
	Installer   Installer
	Requirement Checker
	Config      *config.InstallerConfig
	Database    db.Info
	Flash       *flash.Flasher
	Logger      *logger.Logger
	srv         *http.Server
}

func NewServer(
	installer Installer,
	checker Checker,
	cfg *config.InstallerConfig,
	database db.Info,
	flasher *flash.Flasher,
	log *logger.Logger,
	host string,
	port string,
) *Server {
	if log == nil {
		log = logger.Nop()
	}

	router := mux.NewRouter()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(log.Named("http").Writer(), router),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:      router,
		Installer:   installer,
		Requirement: checker,
		Config:      cfg,
		Database:    database,
		Flash:       flasher,
		Logger:      log,
		srv:         srv,
	}
}

// Handler returns the logged router
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
