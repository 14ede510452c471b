package service

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/account-recovery/internal/model"
	"github.com/iliyamo/account-recovery/internal/repository"
	"github.com/iliyamo/account-recovery/internal/utils"
)

type sentMail struct {
	to        string
	code      string
	expiresAt time.Time
}

type fakeMailer struct {
	err  error
	sent []sentMail
}

func (f *fakeMailer) SendPasswordReset(_ context.Context, to, code string, expiresAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, code: code, expiresAt: expiresAt})
	return nil
}

var frozenNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newRecovery(store *fakeStore, m *fakeMailer) *RecoveryService {
	svc := NewRecoveryService(store, m, testConfig())
	svc.now = func() time.Time { return frozenNow }
	return svc
}

func pendingUser(t *testing.T, code string, expiry time.Time) model.User {
	t.Helper()
	return model.User{
		ID:              42,
		Email:           "a@x.com",
		PasswordHash:    mustHash(t, "Abcdef1!"),
		ResetCode:       &code,
		ResetCodeExpiry: &expiry,
	}
}

func TestRequestResetPersistsCodeAndSendsMail(t *testing.T) {
	store := &fakeStore{user: model.User{ID: 42, Email: "a@x.com"}}
	mailer := &fakeMailer{}
	svc := newRecovery(store, mailer)

	err := svc.RequestReset(context.Background(), "a@x.com")
	require.NoError(t, err)

	require.Len(t, store.setCalls, 1)
	call := store.setCalls[0]
	assert.Equal(t, uint64(42), call.userID)
	assert.Len(t, call.code, 32)
	_, decErr := hex.DecodeString(call.code)
	assert.NoError(t, decErr)
	assert.Equal(t, frozenNow.Add(15*time.Minute), call.expiry)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "a@x.com", mailer.sent[0].to)
	assert.Equal(t, call.code, mailer.sent[0].code)
	assert.Equal(t, call.expiry, mailer.sent[0].expiresAt)
}

func TestRequestResetUnknownEmailIsSilent(t *testing.T) {
	store := &fakeStore{getErr: repository.ErrNotFound}
	mailer := &fakeMailer{}
	svc := newRecovery(store, mailer)

	err := svc.RequestReset(context.Background(), "nobody@x.com")
	require.NoError(t, err, "unknown email must produce the same outcome as a known one")
	assert.Empty(t, store.setCalls)
	assert.Empty(t, mailer.sent)
}

func TestRequestResetMailFailureSurfacesAfterPersist(t *testing.T) {
	store := &fakeStore{user: model.User{ID: 42, Email: "a@x.com"}}
	mailer := &fakeMailer{err: errors.New("smtp: connection refused")}
	svc := newRecovery(store, mailer)

	err := svc.RequestReset(context.Background(), "a@x.com")
	require.Error(t, err)
	assert.Len(t, store.setCalls, 1, "persisted code is not rolled back on dispatch failure")
}

func TestRequestResetOverwritesOutstandingCode(t *testing.T) {
	store := &fakeStore{user: pendingUser(t, "00000000000000000000000000000000", frozenNow.Add(10*time.Minute))}
	mailer := &fakeMailer{}
	svc := newRecovery(store, mailer)

	require.NoError(t, svc.RequestReset(context.Background(), "a@x.com"))
	require.Len(t, store.setCalls, 1)
	assert.NotEqual(t, "00000000000000000000000000000000", store.setCalls[0].code)
}

func TestVerifyResetSuccessConsumesCode(t *testing.T) {
	store := &fakeStore{user: pendingUser(t, "c0ffee", frozenNow.Add(5*time.Minute))}
	svc := newRecovery(store, &fakeMailer{})

	err := svc.VerifyResetAndSetPassword(context.Background(), "c0ffee", "Newpass1!")
	require.NoError(t, err)

	require.Len(t, store.consumeCalls, 1)
	call := store.consumeCalls[0]
	assert.Equal(t, uint64(42), call.userID)
	assert.Equal(t, "c0ffee", call.code)
	assert.True(t, utils.VerifyPassword(call.hash, "Newpass1!"))
	assert.False(t, utils.VerifyPassword(call.hash, "Abcdef1!"))
}

func TestVerifyResetExpiredCode(t *testing.T) {
	store := &fakeStore{user: pendingUser(t, "c0ffee", frozenNow.Add(-time.Minute))}
	svc := newRecovery(store, &fakeMailer{})

	err := svc.VerifyResetAndSetPassword(context.Background(), "c0ffee", "Newpass1!")
	assert.ErrorIs(t, err, ErrResetCodeExpired)
	assert.Empty(t, store.consumeCalls, "expired code must leave the record unchanged")
}

func TestVerifyResetUnknownCode(t *testing.T) {
	store := &fakeStore{getErr: repository.ErrNotFound}
	svc := newRecovery(store, &fakeMailer{})

	err := svc.VerifyResetAndSetPassword(context.Background(), "deadbeef", "Newpass1!")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}

func TestVerifyResetLosesConsumeRace(t *testing.T) {
	// The conditional update found no row: a concurrent verification
	// already consumed or replaced the code.
	store := &fakeStore{
		user:       pendingUser(t, "c0ffee", frozenNow.Add(5*time.Minute)),
		consumeErr: repository.ErrNotFound,
	}
	svc := newRecovery(store, &fakeMailer{})

	err := svc.VerifyResetAndSetPassword(context.Background(), "c0ffee", "Newpass1!")
	assert.ErrorIs(t, err, ErrInvalidResetCode)
}

func TestVerifyResetWeakPasswordRejected(t *testing.T) {
	store := &fakeStore{user: pendingUser(t, "c0ffee", frozenNow.Add(5*time.Minute))}
	svc := newRecovery(store, &fakeMailer{})

	err := svc.VerifyResetAndSetPassword(context.Background(), "c0ffee", "weak")
	assert.ErrorIs(t, err, utils.ErrWeakPassword)
	assert.Empty(t, store.consumeCalls)
}

func TestVerifyResetStoreFailureNotMasked(t *testing.T) {
	store := &fakeStore{getErr: errors.New("connection refused")}
	svc := newRecovery(store, &fakeMailer{})

	err := svc.VerifyResetAndSetPassword(context.Background(), "c0ffee", "Newpass1!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidResetCode)
	assert.NotErrorIs(t, err, ErrResetCodeExpired)
}
