package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/account-recovery/internal/config"
	"github.com/iliyamo/account-recovery/internal/repository"
	"github.com/iliyamo/account-recovery/internal/utils"
)

// Mailer dispatches the password reset email. *mailer.SMTPMailer
// satisfies it.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, code string, expiresAt time.Time) error
}

// resetCodeBytes is the entropy of a reset code; 16 random bytes
// render as 32 hex characters.
const resetCodeBytes = 16

// RecoveryService runs the time-boxed password reset flow. Per user
// the reset columns drive a small state machine: no pending reset,
// pending reset (code+expiry set), back to no pending reset once a
// verification consumes the code. A repeated request overwrites the
// outstanding code; a failed verification leaves the row unchanged.
type RecoveryService struct {
	store      UserStore
	mailer     Mailer
	codeTTL    time.Duration
	bcryptCost int
	now        func() time.Time
}

func NewRecoveryService(store UserStore, m Mailer, cfg config.Config) *RecoveryService {
	return &RecoveryService{
		store:      store,
		mailer:     m,
		codeTTL:    time.Duration(cfg.ResetCodeTTLMin) * time.Minute,
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// RequestReset generates a fresh reset code for the user, persists it
// with its expiry, and emails it. An unknown email returns nil so the
// handler answers with the same acknowledgement either way and the
// response never reveals whether an account exists. A mail dispatch
// failure is returned to the caller but does not roll back the
// persisted code.
func (s *RecoveryService) RequestReset(ctx context.Context, email string) error {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("looking up user by email: %w", err)
	}

	code, err := utils.RandomHex(resetCodeBytes)
	if err != nil {
		return fmt.Errorf("generating reset code: %w", err)
	}
	expiry := s.now().UTC().Add(s.codeTTL)
	if err := s.store.SetResetCode(ctx, u.ID, code, expiry); err != nil {
		return fmt.Errorf("storing reset code: %w", err)
	}
	if err := s.mailer.SendPasswordReset(ctx, u.Email, code, expiry); err != nil {
		return fmt.Errorf("dispatching reset email: %w", err)
	}
	return nil
}

// VerifyResetAndSetPassword checks the presented code and, when it is
// known and unexpired, replaces the user's password and clears both
// reset columns in one conditional update. If a concurrent
// verification already consumed the code, the conditional update
// affects no rows and ErrInvalidResetCode is returned. The password
// policy is re-checked here rather than trusting the boundary.
func (s *RecoveryService) VerifyResetAndSetPassword(ctx context.Context, code, newPassword string) error {
	if err := utils.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	u, err := s.store.GetByResetCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("looking up user by reset code: %w", err)
	}
	if u.ResetCode == nil || u.ResetCodeExpiry == nil {
		// Row violates the both-or-neither invariant; treat as unknown.
		return ErrInvalidResetCode
	}
	if u.ResetCodeExpiry.Before(s.now().UTC()) {
		return ErrResetCodeExpired
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.store.ConsumeResetCode(ctx, u.ID, *u.ResetCode, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidResetCode
		}
		return fmt.Errorf("consuming reset code: %w", err)
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
