package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/iliyamo/account-recovery/internal/model"
)

const userColumns = "id,email,password_hash,reset_code,reset_code_expires_at,created_at,updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with the given password hash and returns its ID.
// A duplicate email is reported as ErrEmailExists (MySQL error 1062).
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash) VALUES (?,?)",
		email, passwordHash)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByResetCode fetches the user holding the given reset code. The
// expiry is not checked here; callers decide whether a stored code is
// still honored.
func (r *UserRepo) GetByResetCode(ctx context.Context, code string) (model.User, error) {
	if code == "" {
		return model.User{}, ErrNotFound
	}
	return r.getOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_code=? LIMIT 1", code)
}

// SetResetCode overwrites the user's reset code and expiry. A second
// reset request simply replaces the outstanding pair.
func (r *UserRepo) SetResetCode(ctx context.Context, userID uint64, code string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_code=?, reset_code_expires_at=? WHERE id=?",
		code, expiry.UTC(), userID)
	return err
}

// ConsumeResetCode replaces the password hash and clears both reset
// columns in a single conditional update. The WHERE clause re-checks
// the code so that of two concurrent verifications only one can win;
// the loser sees zero affected rows and gets ErrNotFound.
func (r *UserRepo) ConsumeResetCode(ctx context.Context, userID uint64, code, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_code=NULL, reset_code_expires_at=NULL WHERE id=? AND reset_code=?",
		passwordHash, userID, code)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (model.User, error) {
	var (
		u      model.User
		code   sql.NullString
		expiry sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &code, &expiry, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, err
	}
	if code.Valid {
		u.ResetCode = &code.String
	}
	if expiry.Valid {
		t := expiry.Time
		u.ResetCodeExpiry = &t
	}
	return u, nil
}
