package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pressly/goose/v3"
)

func TestVendsRepositories(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	m := NewPostgresRepositoryManager()

	if m.Users(db) == nil {
		t.Fatal("Users returned nil")
	}
	if m.Keys(db) == nil {
		t.Fatal("Keys returned nil")
	}
	if m.InvalidJWTs(db) == nil {
		t.Fatal("InvalidJWTs returned nil")
	}
	if m.Expenses(db) == nil {
		t.Fatal("Expenses returned nil")
	}
}

func TestRunMigrations_PropagatesError(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	sentinel := errors.New("migration failed")
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return sentinel
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
}

func TestRunMigrations_Success(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()

	called := false
	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := NewPostgresRepositoryManager()
	if err := m.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
	if !called {
		t.Fatal("goose.UpContext was not invoked")
	}
}
