package audit

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := AdministratorEvent{
		Email:    "admin@orchestraplatform.com",
		Fullname: "Administrator",
		Status:   "verified",
	}

	mock.ExpectExec(`INSERT INTO messages \(step, severity, subject, recorded_at, hostname, sdata, message\)`).
		WithArgs(
			"install-user",      // step
			int(SeverityNotice), // severity
			"admin@orchestraplatform.com",
			sqlmock.AnyArg(), // recorded_at
			sqlmock.AnyArg(), // hostname
			sqlmock.AnyArg(), // sdata (JSON)
			"installer is creating administrator admin@orchestraplatform.com",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(context.Background(), event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveACLEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := ACLEvent{
		Scope:   "orchestra",
		Roles:   []string{"administrator", "member"},
		Actions: []string{"manage-orchestra", "manage-users"},
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			"install-acl",
			int(SeverityNotice),
			"orchestra",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"installer seeded acl orchestra with 2 action(s) for 2 role(s)",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(context.Background(), event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveSchemaEventHasNoSubject(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			"install-schema",
			int(SeverityNotice),
			sql.NullString{},
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			[]byte(`{"action@32473":{"operation":"migrate"}}`),
			"installer applied the foundation schema",
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Save(context.Background(), SchemaEvent{}); err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveWrapsStep(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)
	boom := errors.New("connection reset")

	mock.ExpectExec(`INSERT INTO messages`).WillReturnError(boom)

	err = store.Save(context.Background(), SchemaEvent{})
	if !errors.Is(err, boom) {
		t.Fatalf("Save() error = %v, want wrapped %v", err, boom)
	}
	if err.Error() != "save install-schema: connection reset" {
		t.Errorf("Save() error = %q", err.Error())
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{db: nil}

	// Should not error when db is nil
	err := store.Save(context.Background(), SchemaEvent{})
	if err != nil {
		t.Errorf("Save() with nil db should not error, got: %v", err)
	}
}

func TestStoreClose(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	store := NewStoreWithDB(db)

	mock.ExpectClose()

	err = store.Close()
	if err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreCloseNilDB(t *testing.T) {
	store := &Store{db: nil}

	err := store.Close()
	if err != nil {
		t.Errorf("Close() with nil db should not error, got: %v", err)
	}
}

func TestNewStoreDisabled(t *testing.T) {
	t.Setenv("ORCHESTRA_AUDIT_DATABASE_URL", "")

	store, err := NewStore()
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if store != nil {
		t.Error("expected nil store when ORCHESTRA_AUDIT_DATABASE_URL is unset")
	}
}
