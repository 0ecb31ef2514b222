package domain

import "time"

// Session represents a persisted login session. The client holds a signed
// token whose sid claim matches the session ID; the row is the revocation
// record.
type Session struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	TokenHash string    `json:"-" db:"token_hash"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// IsValid reports whether the session is usable at the given instant.
// Lifetime is fixed at creation; there is no sliding renewal.
func (s Session) IsValid(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

// SessionClaims represents the claims carried by a session token
type SessionClaims struct {
	SessionID string `json:"sid"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Exp       int64  `json:"exp"`
	Iat       int64  `json:"iat"`
}

// IsExpired checks if the token is expired
func (c SessionClaims) IsExpired() bool {
	return time.Now().Unix() > c.Exp
}
