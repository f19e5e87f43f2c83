package hooks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHook(t *testing.T, dir, content string) string {
	t.Helper()
	path := HookPath(dir)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestBootWithoutHookFiles(t *testing.T) {
	l := NewLoader()
	err := l.Boot([]string{t.TempDir(), filepath.Join(t.TempDir(), "missing")})

	assert.NoError(t, err)
	assert.Empty(t, l.Manifests())
}

func TestBootLoadsEachFileOnce(t *testing.T) {
	database := t.TempDir()
	app := t.TempDir()
	writeHook(t, database, "actions:\n  - Manage Reports\n")
	writeHook(t, app, "settings:\n  site.description: Internal tools\n")

	l := NewLoader()
	require.NoError(t, l.Boot([]string{database, app}))
	require.NoError(t, l.Boot([]string{database, app}))

	manifests := l.Manifests()
	require.Len(t, manifests, 2)
	assert.Equal(t, HookPath(database), manifests[0].Path)
	assert.Equal(t, HookPath(app), manifests[1].Path)
	assert.Equal(t, []string{"Manage Reports"}, l.Actions())
	assert.Equal(t, "Internal tools", manifests[1].Settings["site.description"])
}

func TestBootPropagatesHookErrors(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "unknown_key: true\n")

	err := NewLoader().Boot([]string{dir})
	assert.ErrorContains(t, err, "parse hook file")
}

func TestBootRejectsUnnamedActions(t *testing.T) {
	for _, content := range []string{"actions:\n  - \"!!!\"\n", "actions:\n  - \"  \"\n"} {
		dir := t.TempDir()
		writeHook(t, dir, content)

		l := NewLoader()
		assert.ErrorContains(t, l.Boot([]string{dir}), "has no letters or digits")
		assert.Empty(t, l.Actions())
	}
}

func TestEmptyHookFile(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "")

	l := NewLoader()
	require.NoError(t, l.Boot([]string{dir}))
	assert.Len(t, l.Manifests(), 1)
	assert.Empty(t, l.Actions())
}

func TestHookPathTrimsTrailingSlash(t *testing.T) {
	assert.Equal(t, filepath.Join("/var/www/database", "orchestra", "installer.yml"), HookPath("/var/www/database/"))
}
