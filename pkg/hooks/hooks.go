// Package hooks loads the optional installer hook files a deployment can drop
// next to its database or application directory to extend setup.
//
// A hook file is a YAML manifest at <dir>/orchestra/installer.yml:
//
//	actions:
//	  - Manage Reports
//	settings:
//	  site.description: Internal tools
//
// Declared actions are added to the "orchestra" ACL and granted to the
// administrator role; declared settings are written to memory after the
// built-in keys.
package hooks

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/orchestra-installer/pkg/acl"
)

// HookFile is the path of a hook file relative to a hook directory
const HookFile = "orchestra/installer.yml"

// Manifest is a parsed hook file
type Manifest struct {
	Path     string                 `yaml:"-"`
	Actions  []string               `yaml:"actions"`
	Settings map[string]interface{} `yaml:"settings"`
}

// HookPath returns the hook file location inside dir
func HookPath(dir string) string {
	return filepath.Join(strings.TrimRight(dir, "/"), filepath.FromSlash(HookFile))
}

// Loader reads hook files, each at most once
type Loader struct {
	mu        sync.Mutex
	loaded    map[string]bool
	manifests []*Manifest
}

func NewLoader() *Loader {
	return &Loader{loaded: make(map[string]bool)}
}

// Boot loads the hook file of every directory, in order. Missing files are
// skipped; a present file that can't be read or parsed is an error.
func (l *Loader) Boot(dirs []string) error {
	for _, dir := range dirs {
		path := HookPath(dir)
		if !Exists(path) {
			continue
		}
		if err := l.RequireOnce(path); err != nil {
			return err
		}
	}
	return nil
}

// RequireOnce parses path unless it was already loaded
func (l *Loader) RequireOnce(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if l.loaded[abs] {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hook file %s: %w", path, err)
	}

	m, err := parse(data)
	if err != nil {
		return fmt.Errorf("parse hook file %s: %w", path, err)
	}
	m.Path = path

	l.loaded[abs] = true
	l.manifests = append(l.manifests, m)
	return nil
}

// Manifests returns the loaded manifests in load order
func (l *Loader) Manifests() []*Manifest {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Manifest(nil), l.manifests...)
}

// Actions returns every action declared by the loaded manifests
func (l *Loader) Actions() []string {
	var out []string
	for _, m := range l.Manifests() {
		out = append(out, m.Actions...)
	}
	return out
}

// Exists reports whether path is an existing regular file
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func parse(data []byte) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	for _, action := range m.Actions {
		if acl.Slug(action) == "" {
			return nil, fmt.Errorf("action %q has no letters or digits", action)
		}
	}
	return &m, nil
}
