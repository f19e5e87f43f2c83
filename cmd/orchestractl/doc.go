// Command orchestractl runs the Orchestra Platform first-run installer.
//
// The installer guards the initial bootstrap of the platform: it migrates
// the database schema, creates the administrator account and seeds the
// base site configuration and the "orchestra" access control list.
//
// # Quick Start
//
//	# Generate a key for the wizard's flash cookies
//	export ORCHESTRA_DATA_KEY=$(orchestractl data-key generate)
//
//	# Run the web wizard on http://localhost:8000/install
//	orchestractl server
//
//	# Or install headless
//	ORCHESTRA_ADMIN_PASSWORD=secret orchestractl install --email admin@example.com
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - ORCHESTRA_DATA_KEY: Base64-encoded 256-bit key sealing flash cookies
//   - ORCHESTRA_CONFIG_PATH: Directory holding orchestra.yml
//   - ORCHESTRA_ENV: "development" for console logs
//   - ORCHESTRA_LOG_LEVEL: Log level (trace, debug, info, warn, error)
//   - ORCHESTRA_AUDIT_DATABASE_URL: Optional database for audit records
//   - PORT: Server port (default: 8000)
package main
