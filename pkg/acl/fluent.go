package acl

import (
	"errors"
	"regexp"
	"strings"
	"sync"
)

// ErrEmptyKey is returned when attaching a blank action or role
var ErrEmptyKey = errors.New("acl key must not be empty")

var nonSlug = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// Slug normalises an action or role name: "Manage Orchestra" -> "manage-orchestra".
// Letters and digits of any script are kept; punctuation-only names slug to "".
func Slug(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-"), "-")
}

// Fluent is an ordered set of slugged keys (actions or roles)
type Fluent struct {
	mu    sync.RWMutex
	items []string
}

func newFluent() *Fluent {
	return &Fluent{}
}

// Attach adds keys that aren't already present. Attaching an existing key is a no-op.
func (f *Fluent) Attach(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, key := range keys {
		slug := Slug(key)
		if slug == "" {
			return ErrEmptyKey
		}
		if f.index(slug) < 0 {
			f.items = append(f.items, slug)
		}
	}
	return nil
}

// Has reports whether key is present
func (f *Fluent) Has(key string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.index(Slug(key)) >= 0
}

// Get returns a copy of the keys in attach order
func (f *Fluent) Get() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]string, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Fluent) index(slug string) int {
	for i, item := range f.items {
		if item == slug {
			return i
		}
	}
	return -1
}
