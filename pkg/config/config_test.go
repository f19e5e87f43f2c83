package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ORCHESTRA_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(1), cfg.Roles.Admin)
	assert.Equal(t, "Orchestra Platform", cfg.SiteName)
	assert.True(t, cfg.AllowMultipleAdmins)
	assert.Equal(t, []string{"database", "app"}, cfg.HookPaths())
	assert.Equal(t, "default", cfg.Source("roles.admin"))
	assert.True(t, cfg.IsAuthDriverSupported())
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORCHESTRA_CONFIG_PATH", dir)

	file := `
roles:
  admin: 3
site_name: From File
allow_multiple_admins: false
mail:
  driver: sendmail
  host: mail.example.com
  port: 2525
auth:
  driver: fluent
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(file), 0o600))
	t.Setenv("ORCHESTRA_SITE_NAME", "From Env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(3), cfg.Roles.Admin)
	assert.Equal(t, "file", cfg.Source("roles.admin"))
	assert.Equal(t, "From Env", cfg.SiteName)
	assert.Equal(t, "environment", cfg.Source("site_name"))
	assert.False(t, cfg.AllowMultipleAdmins)
	assert.Equal(t, "file", cfg.Source("allow_multiple_admins"))
	assert.Equal(t, "sendmail", cfg.Mail.Driver)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.False(t, cfg.IsAuthDriverSupported())
	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFilePath())
}

func TestLoadAdminRoleFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORCHESTRA_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("roles:\n  admin: 3\n"), 0o600))
	t.Setenv("ORCHESTRA_ADMIN_ROLE_ID", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Roles.Admin)
	assert.Equal(t, "environment", cfg.Source("roles.admin"))
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ORCHESTRA_CONFIG_PATH", dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("site_name: [unclosed"), 0o600))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := NewDefault()
	cfg.Roles.Admin = 0
	assert.Error(t, cfg.Validate())

	cfg = NewDefault()
	cfg.SiteName = "  "
	assert.Error(t, cfg.Validate())
}

func TestFormatOutputsHideDataKey(t *testing.T) {
	cfg := NewDefault()
	cfg.DataKey = "c2VjcmV0"

	text := cfg.FormatText()
	assert.Contains(t, text, "roles.admin")
	assert.NotContains(t, text, "c2VjcmV0")

	out, err := cfg.FormatJSON()
	require.NoError(t, err)
	assert.Contains(t, out, `"site_name"`)
	assert.NotContains(t, out, "c2VjcmV0")
}
