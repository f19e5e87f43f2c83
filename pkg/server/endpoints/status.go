package endpoints

import (
	"net/http"
	"os"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/server"
)

// StatusResponse is the body of GET /status
type StatusResponse struct {
	Version   string `json:"version"`
	Installed bool   `json:"installed"`
}

// RegisterStatusEndpoints registers the root redirect and the status endpoint
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, PathIndex, http.StatusFound)
	}).Methods("GET")

	s.Router.HandleFunc("/status", handleStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("ORCHESTRA_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		installed, err := s.Installer.Installed(r.Context())
		if err != nil {
			s.Logger.Debug().Err(err).Msg("installed check failed")
		}

		respondWithJSON(w, http.StatusOK, StatusResponse{Version: version, Installed: installed})
	}
}
