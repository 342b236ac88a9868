package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"

	"taskr/internal/entity"
	"taskr/internal/repository"
	"taskr/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}
	if err := migrations.AutoMigrateUsers("sqlite", 0, db); err != nil {
		t.Fatalf("Failed to migrate users: %v", err)
	}
	if err := migrations.AutoMigrateTasks("sqlite", 0, db); err != nil {
		t.Fatalf("Failed to migrate tasks: %v", err)
	}

	return db
}

func newAuthService(db *sql.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), BcryptVerifier{})
}

func TestRegisterDefaultsToUserRole(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	auth := newAuthService(db)

	user, err := auth.Register(context.Background(), "johnny", "john@doe.com", "johnny")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Role != entity.RoleUser {
		t.Errorf("expected role %q, got %q", entity.RoleUser, user.Role)
	}
	if user.Password == "johnny" {
		t.Error("password should not be stored in plaintext by the bcrypt verifier")
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	auth := newAuthService(db)

	if _, err := auth.Register(context.Background(), "filipe", "filipe@sapo.pt", "123456"); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	_, err := auth.Register(context.Background(), "filipe", "filipe@sapo.pt", "123456")
	if !errors.Is(err, repository.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestLoginVerifiesCredentials(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	auth := newAuthService(db)

	if _, err := auth.Register(context.Background(), "filipe", "filipe@sapo.pt", "123456"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := auth.Login(context.Background(), "filipe", "123456")
	if err != nil {
		t.Fatalf("Login with correct credentials failed: %v", err)
	}
	if user.Name != "filipe" {
		t.Errorf("expected user filipe, got %q", user.Name)
	}

	if _, err := auth.Login(context.Background(), "filipe", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := auth.Login(context.Background(), "joaquim", "123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestPlainVerifierMatchesLegacyBehavior(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	auth := NewAuthService(repository.NewUserRepository(db), PlainVerifier{})

	user, err := auth.Register(context.Background(), "andre", "andre@lolo.pt", "123456")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Password != "123456" {
		t.Errorf("plain verifier should store the password as-is, got %q", user.Password)
	}

	if _, err := auth.Login(context.Background(), "andre", "123456"); err != nil {
		t.Errorf("Login failed: %v", err)
	}
}
