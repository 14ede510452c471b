package model

import "time"

// User represents an application user record as stored in the
// `users` table. The reset fields hold the outstanding password
// reset code and its expiry; both are nil when no reset is
// pending. A non-nil expiry in the past means the stored code is
// no longer honored even though it is still present on the row.
//
// Fields:
//  ID              – primary key identifier of the user.
//  Email           – unique, normalized (lower-cased) email address.
//  PasswordHash    – bcrypt hash of the current password.
//  ResetCode       – outstanding password reset code, nil when none.
//  ResetCodeExpiry – when the reset code stops being valid, nil when none.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type User struct {
	ID              uint64     // users.id
	Email           string     // users.email
	PasswordHash    string     // users.password_hash
	ResetCode       *string    // users.reset_code (nullable)
	ResetCodeExpiry *time.Time // users.reset_code_expires_at (nullable)
	CreatedAt       time.Time  // users.created_at
	UpdatedAt       time.Time  // users.updated_at
}

// PublicUser is the subset of user data that may cross the trust
// boundary. The password hash and reset fields never leave the
// store layer in any serialized form.
type PublicUser struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
}
