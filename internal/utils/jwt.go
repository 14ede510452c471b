package utils // package utils provides helpers for token creation and random secrets

import (
	"crypto/rand"  // secure random number generation
	"encoding/hex" // hex encoding for reset codes
	"time"         // time utilities for generating expirations

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// AccessToken represents a signed JWT session token along with its
// expiry. The Token field contains the JWT string. The token is the
// whole session record: no server-side session state is kept.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. It takes
// the signing secret, the user ID, the user's email, and a TTL in
// minutes. The claims are subject (sub), email, expiration (exp) and
// issued at (iat).
func NewAccessToken(secret string, userID uint64, email string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   exp.Unix(),
		"iat":   time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// RandomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data. It is used to produce
// password reset codes.
func RandomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
