package endpoints

import (
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server"
)

// RegisterAll registers all endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterInstallEndpoints(srv)
	RegisterStatusEndpoints(srv)

	// Static files
	RegisterStaticFiles(srv)
}
