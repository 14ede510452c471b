// Package service contains the credential-issuance and
// account-recovery core. Services depend on narrow interfaces for
// storage and mail so that the protocol logic stays testable without
// a running database or SMTP transport.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/account-recovery/internal/config"
	"github.com/iliyamo/account-recovery/internal/model"
	"github.com/iliyamo/account-recovery/internal/repository"
	"github.com/iliyamo/account-recovery/internal/utils"
)

// UserStore is the contract the services use against persistent
// storage. *repository.UserRepo satisfies it.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByResetCode(ctx context.Context, code string) (model.User, error)
	SetResetCode(ctx context.Context, userID uint64, code string, expiry time.Time) error
	ConsumeResetCode(ctx context.Context, userID uint64, code, passwordHash string) error
}

// dummyHash is a valid bcrypt digest compared against when the email
// is unknown, so the unknown-email path costs the same as a real
// verification and timing does not leak account existence.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService validates credentials and issues signed session tokens.
type AuthService struct {
	store        UserStore
	jwtSecret    string
	accessTTLMin int
	bcryptCost   int
}

func NewAuthService(store UserStore, cfg config.Config) *AuthService {
	return &AuthService{
		store:        store,
		jwtSecret:    cfg.JWTSecret,
		accessTTLMin: cfg.AccessTTLMin,
		bcryptCost:   cfg.BcryptCost,
	}
}

// Authenticate verifies an email/password pair and returns the public
// view of the user. Unknown email and wrong password both yield
// ErrInvalidCredentials; store failures are returned as-is and are
// never masked as an authentication failure.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (model.PublicUser, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.VerifyPassword(dummyHash, password)
			return model.PublicUser{}, ErrInvalidCredentials
		}
		return model.PublicUser{}, fmt.Errorf("looking up user by email: %w", err)
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return model.PublicUser{}, ErrInvalidCredentials
	}
	return model.PublicUser{ID: u.ID, Email: u.Email}, nil
}

// Login authenticates and, on success, signs session claims
// {sub, email} into a stateless bearer token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return "", err
	}
	access, err := utils.NewAccessToken(s.jwtSecret, u.ID, u.Email, s.accessTTLMin)
	if err != nil {
		return "", fmt.Errorf("signing access token: %w", err)
	}
	return access.Token, nil
}

// Register creates a user and returns only its public fields; the
// password hash never crosses this boundary. Duplicate emails
// surface repository.ErrEmailExists, detected from the constraint
// violation rather than a racy pre-check.
func (s *AuthService) Register(ctx context.Context, email, password string) (model.PublicUser, error) {
	if err := utils.ValidatePasswordStrength(password); err != nil {
		return model.PublicUser{}, err
	}
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("hashing password: %w", err)
	}
	id, err := s.store.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return model.PublicUser{}, err
		}
		return model.PublicUser{}, fmt.Errorf("creating user: %w", err)
	}
	return model.PublicUser{ID: id, Email: normalizeEmail(email)}, nil
}
