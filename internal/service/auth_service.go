package service

import (
	"context"
	"database/sql"
	"errors"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"taskr/internal/entity"
	"taskr/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var ErrInvalidCredentials = errors.New("invalid username or password")

// CredentialVerifier hides how passwords are stored and compared so the
// hashing scheme can be swapped without touching handlers or repositories.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(stored, password string) bool
}

type BcryptVerifier struct{}

func (BcryptVerifier) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (BcryptVerifier) Verify(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}

// PlainVerifier stores passwords as-is. It exists to reproduce the observable
// behavior of the legacy system; BcryptVerifier is the default.
type PlainVerifier struct{}

func (PlainVerifier) Hash(password string) (string, error) { return password, nil }

func (PlainVerifier) Verify(stored, password string) bool { return stored == password }

type AuthService struct {
	users *repository.UserRepository
	creds CredentialVerifier
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users *repository.UserRepository, creds CredentialVerifier) *AuthService {
	return &AuthService{users: users, creds: creds}
}

// Register creates a new account with the default user role. Returns
// repository.ErrDuplicateUser when the name or email is already taken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	hashed, err := s.creds.Hash(password)
	if err != nil {
		logger.Error().Err(err).Msg("Error hashing password")
		return nil, err
	}

	user := &entity.User{Name: name, Email: email, Password: hashed, Role: entity.RoleUser}
	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if !errors.Is(err, repository.ErrDuplicateUser) {
			logger.Error().Err(err).Msg("Error creating user")
		}
		return nil, err
	}

	return created, nil
}

// Login verifies a name/password pair. An unknown name and a wrong password
// are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, name, password string) (*entity.User, error) {
	user, err := s.users.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		logger.Error().Err(err).Msgf("Error looking up user %s", name)
		return nil, err
	}

	if !s.creds.Verify(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}
