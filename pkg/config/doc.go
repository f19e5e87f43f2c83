// Package config provides configuration management for the installer.
//
// Configuration is loaded from an optional YAML file and then overridden by
// environment variables. Every attribute remembers where its value came from
// so "orchestractl configuration show" can report it.
//
// # Configuration Sources
//
//   - Defaults
//   - $ORCHESTRA_CONFIG_PATH/orchestra.yml (default /etc/orchestra/config)
//   - Environment variables (highest precedence)
//
// # Key Configuration Options
//
//   - ORCHESTRA_ADMIN_ROLE_ID: role granted to the administrator (roles.admin, default 1)
//   - ORCHESTRA_SITE_NAME: default site name on the create form
//   - ORCHESTRA_ALLOW_MULTIPLE_ADMINS: skip the existing-user guard
//   - ORCHESTRA_DATABASE_PATH, ORCHESTRA_APP_PATH: installer hook directories
//   - ORCHESTRA_MAIL_*: mail block seeded into the "email" setting
//   - DATABASE_URL: Database connection
package config
