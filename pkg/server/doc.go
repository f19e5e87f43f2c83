// Package server provides the HTTP server for the installation wizard.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logging.
// The wizard routes themselves are registered by the endpoints subpackage:
//
//	srv := server.NewServer(inst, checker, cfg, db.Describe(url), flasher, log, host, port)
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// # Routes
//
//   - GET  /install          readiness checklist
//   - GET  /install/prepare  load hook files and migrate the schema
//   - GET  /install/create   administrator form
//   - POST /install/create   create the administrator
//   - GET  /install/done     confirmation
//
// Once an administrator exists and the site is named, every route but
// /install/done redirects to /install/done.
package server
