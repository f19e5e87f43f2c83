package integration

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"sync/atomic"
	"time"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/acl"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/config"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/db"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/events"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/flash"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/hooks"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/installation"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/logger"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/memory"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/migrator"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/requirement"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/server/endpoints"
	gormstore "github.com/doodlesbykumbi/orchestra-installer/pkg/server/store/gorm"
	"github.com/doodlesbykumbi/orchestra-installer/pkg/validation"
)

// portCounter is used to allocate unique ports for binary mode servers
var portCounter int32 = 19000

// ServerInstance is an installer serving a single scenario's database
type ServerInstance struct {
	ServerURL     string
	DB            *gorm.DB
	inline        *httptest.Server
	cancel        context.CancelFunc
	serverProcess *exec.Cmd
}

// StartServer starts an installer against dbURL in the suite's mode. The
// schema is left unmigrated so the wizard's prepare step runs it.
func StartServer(tc *TestContext, dbURL string) (*ServerInstance, error) {
	conn, err := open(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if tc.InlineMode {
		return startInlineServerInstance(conn, dbURL, tc.DataKey)
	}
	return startBinaryServerInstance(conn, tc.BinaryPath, dbURL, tc.DataKey)
}

func startInlineServerInstance(conn *gorm.DB, dbURL string, dataKey []byte) (*ServerInstance, error) {
	cfg := config.NewDefault()
	cfg.StoragePath = os.TempDir()

	inst := installation.New(installation.Dependencies{
		Validator: validation.New(),
		Users:     gormstore.NewUsersStore(conn),
		Roles:     gormstore.NewRolesStore(conn),
		Memory:    memory.NewGormStore(conn),
		ACL:       acl.NewFactory(),
		Migrator:  migrator.New(dbURL),
		Events:    events.NewDispatcher(),
		Hooks:     hooks.NewLoader(),
		Config:    cfg,
		Logger:    logger.Nop(),
	})

	flasher, err := flash.New(dataKey)
	if err != nil {
		return nil, err
	}

	s := server.NewServer(
		inst,
		requirement.New(gormstore.NewHealthStore(conn), cfg),
		cfg,
		db.Describe(dbURL),
		flasher,
		logger.Nop(),
		"127.0.0.1",
		"0",
	)
	endpoints.RegisterAll(s)

	ts := httptest.NewServer(s.Handler())
	return &ServerInstance{ServerURL: ts.URL, DB: conn, inline: ts}, nil
}

func startBinaryServerInstance(conn *gorm.DB, binaryPath, dbURL string, dataKey []byte) (*ServerInstance, error) {
	port := int(atomic.AddInt32(&portCounter, 1))
	portStr := fmt.Sprintf("%d", port)

	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, binaryPath, "server", "--no-migrate", "-b", "127.0.0.1", "-p", portStr)
	cmd.Env = append(os.Environ(),
		"DATABASE_URL="+dbURL,
		"ORCHESTRA_DATA_KEY="+base64.StdEncoding.EncodeToString(dataKey),
		"ORCHESTRA_CONFIG_PATH="+os.TempDir(),
		"ORCHESTRA_STORAGE_PATH="+os.TempDir(),
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start binary: %w", err)
	}

	instance := &ServerInstance{
		ServerURL:     fmt.Sprintf("http://127.0.0.1:%d", port),
		DB:            conn,
		cancel:        cancel,
		serverProcess: cmd,
	}

	if err := waitForServer(instance.ServerURL, 30*time.Second); err != nil {
		instance.Stop()
		return nil, fmt.Errorf("server failed to become ready: %w", err)
	}

	return instance, nil
}

// Stop shuts down the server instance
func (si *ServerInstance) Stop() {
	if si.inline != nil {
		si.inline.Close()
	}
	if si.cancel != nil {
		si.cancel()
	}
	if si.serverProcess != nil && si.serverProcess.Process != nil {
		_ = si.serverProcess.Process.Kill()
		_ = si.serverProcess.Wait()
	}
	if sqlDB, err := si.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// waitForServer polls the status endpoint until it responds or times out
func waitForServer(serverURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: 2 * time.Second}
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := client.Get(serverURL + "/status")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(100 * time.Millisecond)
	}

	return fmt.Errorf("server did not become ready within %v", timeout)
}
