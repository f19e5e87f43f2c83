package endpoints

import (
	"net/http"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/config"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/db"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/flash"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/installation"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/requirement"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server"
)

// Wizard paths
const (
	PathIndex   = "/install"
	PathPrepare = "/install/prepare"
	PathCreate  = "/install/create"
	PathDone    = "/install/done"
)

// DefaultFullname pre-fills the administrator name on the create form
const DefaultFullname = "Administrator"

type pageData struct {
	Title string
	Step  int
	Flash flash.Bag
}

// IndexView is the view model of GET /install
type IndexView struct {
	pageData
	Database       db.Info
	Auth           config.AuthConfig
	Authentication bool
	Installable    bool
	Checklist      requirement.Checklist
}

// CreateView is the view model of GET /install/create
type CreateView struct {
	pageData
	Email    string
	Fullname string
	SiteName string
}

// RegisterInstallEndpoints registers the installation wizard
func RegisterInstallEndpoints(s *server.Server) {
	s.Router.HandleFunc(PathIndex, lockedOut(s, handleIndex(s))).Methods("GET")
	s.Router.HandleFunc(PathPrepare, lockedOut(s, handlePrepare(s))).Methods("GET")
	s.Router.HandleFunc(PathCreate, lockedOut(s, handleCreateForm(s))).Methods("GET")
	s.Router.HandleFunc(PathCreate, lockedOut(s, handleCreate(s))).Methods("POST")
	s.Router.HandleFunc(PathDone, handleDone(s)).Methods("GET")
}

// lockedOut sends every request to the done page once the platform is installed
func lockedOut(s *server.Server, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		installed, err := s.Installer.Installed(r.Context())
		if err != nil {
			// the schema may not exist yet
			s.Logger.Debug().Err(err).Msg("installed check failed")
		}
		if installed {
			http.Redirect(w, r, PathDone, http.StatusFound)
			return
		}
		next(w, r)
	}
}

func handleIndex(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checklist := s.Requirement.Check(r.Context())

		render(w, "index", IndexView{
			pageData:       pageData{Title: "Requirements", Step: 1, Flash: s.Flash.Pop(w, r)},
			Database:       s.Database,
			Auth:           s.Config.Auth,
			Authentication: s.Config.IsAuthDriverSupported(),
			Installable:    checklist.Installable,
			Checklist:      checklist,
		})
	}
}

func handlePrepare(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Installer.BootInstallerFiles(); err != nil {
			s.Logger.Error().Err(err).Msg("failed to load installer hook files")
			redirectWithError(s, w, r, PathIndex, err)
			return
		}

		if _, err := s.Installer.Migrate(r.Context()); err != nil {
			s.Logger.Error().Err(err).Msg("failed to migrate schema")
			redirectWithError(s, w, r, PathIndex, err)
			return
		}

		http.Redirect(w, r, PathCreate, http.StatusFound)
	}
}

func handleCreateForm(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bag := s.Flash.Pop(w, r)

		view := CreateView{
			pageData: pageData{Title: "Create Administrator", Step: 2, Flash: bag},
			Email:    bag.Old["email"],
			Fullname: DefaultFullname,
			SiteName: s.Config.SiteName,
		}
		if v, ok := bag.Old["fullname"]; ok {
			view.Fullname = v
		}
		if v, ok := bag.Old["site_name"]; ok {
			view.SiteName = v
		}
		if view.SiteName == "" {
			view.SiteName = config.DefaultSiteName
		}

		render(w, "create", view)
	}
}

func handleCreate(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid form body")
			return
		}

		input := installation.Input{
			Email:    r.PostForm.Get("email"),
			Password: r.PostForm.Get("password"),
			Fullname: r.PostForm.Get("fullname"),
			SiteName: r.PostForm.Get("site_name"),
		}

		if err := s.Installer.BootInstallerFiles(); err != nil {
			s.Logger.Error().Err(err).Msg("failed to load installer hook files")
			redirectWithError(s, w, r, PathCreate, err)
			return
		}

		outcome := s.Installer.Make(r.Context(), input, s.Config.AllowMultipleAdmins)
		if outcome.Success {
			setFlash(s, w, flash.Bag{Success: []string{outcome.Message}})
			http.Redirect(w, r, PathDone, http.StatusFound)
			return
		}

		bag := flash.Bag{
			FieldErrors: outcome.FieldErrors,
			Old: map[string]string{
				"email":     input.Email,
				"fullname":  input.Fullname,
				"site_name": input.SiteName,
			},
		}
		if !outcome.Invalid() {
			bag.Errors = []string{outcome.Message}
		}
		setFlash(s, w, bag)
		http.Redirect(w, r, PathCreate, http.StatusFound)
	}
}

func handleDone(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render(w, "done", pageData{Title: "Done", Step: 3, Flash: s.Flash.Pop(w, r)})
	}
}

func redirectWithError(s *server.Server, w http.ResponseWriter, r *http.Request, path string, err error) {
	setFlash(s, w, flash.Bag{Errors: []string{err.Error()}})
	http.Redirect(w, r, path, http.StatusFound)
}

func setFlash(s *server.Server, w http.ResponseWriter, bag flash.Bag) {
	if err := s.Flash.Set(w, bag); err != nil {
		s.Logger.Warn().Err(err).Msg("failed to set flash message")
	}
}
