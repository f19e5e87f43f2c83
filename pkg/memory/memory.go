// Package memory is the persistent key/value settings store ("memory") the
// running platform reads its site configuration from.
//
// Values are stored JSON encoded. The keys written at install time are
// documented as constants below; the running application may add more.
package memory

import (
	"context"
	"errors"
)

// Keys seeded by the installer
const (
	// KeySiteName holds the site name string
	KeySiteName = "site.name"
	// KeySiteTheme holds a Theme
	KeySiteTheme = "site.theme"
	// KeyEmail holds the mail configuration block (config.MailConfig)
	KeyEmail = "email"
	// KeyEmailFrom holds an EmailFrom
	KeyEmailFrom = "email.from"
	// KeyInstalled is written last, once the ACL is seeded. Holds true.
	KeyInstalled = "orchestra.installed"
)

// ErrNotFound is returned by Get when the key has never been stored
var ErrNotFound = errors.New("setting not found")

// Theme selects the frontend and backend themes
type Theme struct {
	Frontend string `json:"frontend"`
	Backend  string `json:"backend"`
}

// DefaultTheme is the theme seeded at install time
var DefaultTheme = Theme{Frontend: "default", Backend: "default"}

// EmailFrom is the default sender for outgoing mail
type EmailFrom struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Store abstracts settings persistence
type Store interface {
	// Put stores value under key, replacing any previous value
	Put(ctx context.Context, key string, value interface{}) error

	// Get decodes the value stored under key into dest.
	// Returns ErrNotFound if the key doesn't exist.
	Get(ctx context.Context, key string, dest interface{}) error
}

// ACLKey is the key an ACL container named name is persisted under
func ACLKey(name string) string {
	return "acl_" + name
}
