// Package flash carries one-shot messages across the wizard's redirects in
// an AES-GCM sealed cookie.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// CookieName is the name of the flash cookie
const CookieName = "orchestra_flash"

// Bag holds the messages for the next request
type Bag struct {
	Success     []string            `json:"success,omitempty"`
	Errors      []string            `json:"errors,omitempty"`
	FieldErrors map[string][]string `json:"field_errors,omitempty"`
	// Old is the previous form input, without secrets
	Old map[string]string `json:"old,omitempty"`
}

// Empty reports whether the bag holds nothing
func (b Bag) Empty() bool {
	return len(b.Success) == 0 && len(b.Errors) == 0 && len(b.FieldErrors) == 0 && len(b.Old) == 0
}

// FieldError returns the first message for field
func (b Bag) FieldError(field string) string {
	if msgs := b.FieldErrors[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Flasher reads and writes the flash cookie
type Flasher struct {
	sealer *sealer
	path   string
	secure bool
}

// New creates a Flasher sealing with key, which must be 16, 24 or 32 bytes
func New(key []byte) (*Flasher, error) {
	s, err := newSealer(key)
	if err != nil {
		return nil, fmt.Errorf("flash key: %w", err)
	}
	return &Flasher{sealer: s, path: "/"}, nil
}

// NewRandom creates a Flasher with a random key. Cookies don't survive a restart.
func NewRandom() (*Flasher, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}
	return New(key)
}

// KeySize is the size of generated keys
const KeySize = 32

var ErrInvalidKey = errors.New("flash key must be base64 encoded")

// GenerateKey returns a random KeySize key
func GenerateKey() ([]byte, error) {
	return randomBytes(KeySize)
}

// FromDataKey creates a Flasher from a base64 key, or with a random key when
// dataKey is empty
func FromDataKey(dataKey string) (*Flasher, error) {
	if dataKey == "" {
		return NewRandom()
	}
	key, err := base64.StdEncoding.DecodeString(dataKey)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return New(key)
}

// Secure marks the cookie Secure
func (f *Flasher) Secure(secure bool) *Flasher {
	f.secure = secure
	return f
}

// Set stores bag for the next request
func (f *Flasher) Set(w http.ResponseWriter, bag Bag) error {
	data, err := json.Marshal(bag)
	if err != nil {
		return err
	}
	sealed, err := f.sealer.seal([]byte(CookieName), data)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(sealed),
		Path:     f.path,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the stored bag and clears the cookie. A missing or tampered
// cookie yields an empty bag.
func (f *Flasher) Pop(w http.ResponseWriter, r *http.Request) Bag {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Bag{}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     f.path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})

	sealed, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return Bag{}
	}
	data, err := f.sealer.open([]byte(CookieName), sealed)
	if err != nil {
		return Bag{}
	}

	var bag Bag
	if err := json.Unmarshal(data, &bag); err != nil {
		return Bag{}
	}
	return bag
}
