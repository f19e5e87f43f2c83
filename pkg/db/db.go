package db

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds database connection configuration
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL env var)
	URL string
}

// Connect establishes a database connection.
// If no URL is provided, it reads from DATABASE_URL environment variable.
func Connect(cfg Config) (*gorm.DB, error) {
	dbURL := cfg.URL
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	// Default to silent logging unless ORCHESTRA_LOG_LEVEL=debug is set
	logMode := logger.Silent
	if os.Getenv("ORCHESTRA_LOG_LEVEL") == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  dbURL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logMode),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}

// Info is the non-secret description of a connection URL
type Info struct {
	Driver string
	Host   string
	Name   string
}

// Describe extracts the driver, host and database name from a connection URL
// without its credentials
func Describe(dbURL string) Info {
	u, err := url.Parse(dbURL)
	if err != nil || u.Scheme == "" {
		return Info{Driver: "postgres"}
	}
	return Info{
		Driver: u.Scheme,
		Host:   u.Host,
		Name:   strings.TrimPrefix(u.Path, "/"),
	}
}
