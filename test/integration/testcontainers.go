package integration

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"sync/atomic"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/flash"
)

// databaseCounter names the per-scenario databases
var databaseCounter int32

// TestContext holds the resources shared by every scenario
type TestContext struct {
	Admin      *gorm.DB // connection to the container's maintenance database
	Container  testcontainers.Container
	BaseURL    *url.URL
	DataKey    []byte
	BinaryPath string
	InlineMode bool
}

// NewTestContext starts a PostgreSQL testcontainer.
// Modes:
//   - Binary mode (default): Set ORCHESTRA_BINARY to the path of the orchestractl binary
//   - Inline mode: Set ORCHESTRA_INLINE=1 to run the installer in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	inlineMode := os.Getenv("ORCHESTRA_INLINE") == "1"
	binaryPath := os.Getenv("ORCHESTRA_BINARY")

	if !inlineMode && binaryPath == "" {
		return nil, fmt.Errorf("Either ORCHESTRA_BINARY or ORCHESTRA_INLINE=1 is required.\n\nBinary mode:\n  go build -o orchestractl ./cmd/orchestractl\n  INTEGRATION_TEST=1 ORCHESTRA_BINARY=$(pwd)/orchestractl go test -v ./test/integration/...\n\nInline mode:\n  INTEGRATION_TEST=1 ORCHESTRA_INLINE=1 go test -v ./test/integration/...")
	}

	if !inlineMode {
		if _, err := os.Stat(binaryPath); err != nil {
			return nil, fmt.Errorf("ORCHESTRA_BINARY path does not exist: %s", binaryPath)
		}
		log.Printf("Using binary: %s", binaryPath)
	} else {
		log.Println("Using inline server mode")
	}

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("orchestra"),
		tcpostgres.WithUsername("orchestra"),
		tcpostgres.WithPassword("orchestra"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container host: %w", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get container port: %w", err)
	}
	base := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword("orchestra", "orchestra"),
		Host:     fmt.Sprintf("%s:%s", host, port.Port()),
		Path:     "/orchestra",
		RawQuery: "sslmode=disable",
	}

	admin, err := open(base.String())
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	dataKey, err := flash.GenerateKey()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}

	return &TestContext{
		Admin:      admin,
		Container:  pgContainer,
		BaseURL:    base,
		DataKey:    dataKey,
		BinaryPath: binaryPath,
		InlineMode: inlineMode,
	}, nil
}

// CreateDatabase creates an empty database and returns its URL. Installation
// is one-shot, so every scenario gets its own.
func (tc *TestContext) CreateDatabase() (string, error) {
	name := fmt.Sprintf("wizard_%d", atomic.AddInt32(&databaseCounter, 1))
	if err := tc.Admin.Exec("CREATE DATABASE " + name).Error; err != nil {
		return "", fmt.Errorf("failed to create database %s: %w", name, err)
	}

	u := *tc.BaseURL
	u.Path = "/" + name
	return u.String(), nil
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if sqlDB, err := tc.Admin.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}

func open(dbURL string) (*gorm.DB, error) {
	return gorm.Open(gormpostgres.New(gormpostgres.Config{
		DSN:                  dbURL,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}
