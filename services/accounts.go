package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coffeeshell/models"

	"github.com/google/uuid"
)

// UserDirectory stores and looks up user records.
type UserDirectory interface {
	CreateUser(ctx context.Context, u models.User) error
	// UserByEmail returns ErrNotFound when no user has the email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Accounts registers and authenticates users against a UserDirectory.
// No session is issued; the returned user lives only for the current run.
type Accounts struct {
	dir UserDirectory
	now func() time.Time
}

func NewAccounts(dir UserDirectory) *Accounts {
	return &Accounts{dir: dir, now: time.Now}
}

// Register hashes the password and creates the user.
func (a *Accounts) Register(ctx context.Context, email, name, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return nil, fmt.Errorf("%w: email, name and password are required", ErrInvalidInput)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    a.now().UTC(),
	}
	if err := a.dir.CreateUser(ctx, u); err != nil {
		if errors.Is(err, ErrDirectory) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	return &u, nil
}

// Authenticate looks the user up by email and verifies the password.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := a.dir.UserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDirectory) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrDirectory, err)
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}
