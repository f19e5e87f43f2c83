package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// Store persists install steps to the messages table
type Store struct {
	db       *sql.DB
	hostname string
}

// NewStore opens the store named by ORCHESTRA_AUDIT_DATABASE_URL. It
// returns nil when the variable is unset.
func NewStore() (*Store, error) {
	dbURL := os.Getenv("ORCHESTRA_AUDIT_DATABASE_URL")
	if dbURL == "" {
		return nil, nil
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, err
	}

	return NewStoreWithDB(db), nil
}

// NewStoreWithDB wraps an open connection
func NewStoreWithDB(db *sql.DB) *Store {
	hostname, _ := os.Hostname()
	return &Store{db: db, hostname: hostname}
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save records one install step. The step column holds the event's
// message ID (install-schema, install-user, install-acl) and subject holds
// what the step acted on: the administrator's email or the ACL scope.
func (s *Store) Save(ctx context.Context, event Event) error {
	if s.db == nil {
		return nil
	}

	sdata := event.StructuredData()
	sdataJSON, err := json.Marshal(sdata)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event.MessageID(), err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO messages (step, severity, subject, recorded_at, hostname, sdata, message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		event.MessageID(),
		int(event.Severity()),
		subjectOf(sdata),
		time.Now().UTC(),
		s.hostname,
		sdataJSON,
		event.Message(),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", event.MessageID(), err)
	}
	return nil
}

// subjectOf returns NULL for steps with no subject, such as install-schema
func subjectOf(sdata map[string]map[string]string) sql.NullString {
	if user := sdata[SDIDSubject]["user"]; user != "" {
		return sql.NullString{String: user, Valid: true}
	}
	if scope := sdata[SDIDInstall]["acl"]; scope != "" {
		return sql.NullString{String: scope, Valid: true}
	}
	return sql.NullString{}
}
