package service

import "errors"

// Domain errors are expected outcomes; handlers map them to fixed
// HTTP statuses. Anything else coming out of a service is an
// infrastructure failure and is answered with a generic 500 after
// logging the cause.

// ErrInvalidCredentials is returned for a wrong email/password pair.
// Unknown email and wrong password produce the identical error so
// that responses never reveal whether an account exists.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidResetCode is returned when no user holds the presented
// reset code, or when the code was consumed or replaced concurrently.
var ErrInvalidResetCode = errors.New("invalid reset code")

// ErrResetCodeExpired is returned when the presented code matches but
// its expiry lies in the past. The user record is left untouched.
var ErrResetCodeExpired = errors.New("reset code has expired")
