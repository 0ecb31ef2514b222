package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nxtrix/account-service/internal/domain"
)

// SessionTokenManager signs and validates session tokens. The token carries
// the session ID so the persisted session row can be consulted for
// revocation; signature and expiry are checked before any storage access.
type SessionTokenManager struct {
	secret     []byte
	sessionTTL time.Duration
}

// NewSessionTokenManager creates a new session token manager
func NewSessionTokenManager(secret string, sessionTTL time.Duration) *SessionTokenManager {
	return &SessionTokenManager{
		secret:     []byte(secret),
		sessionTTL: sessionTTL,
	}
}

// Generate signs a new session token for the given session and user.
// Expiry is fixed at creation time; tokens are never renewed.
func (m *SessionTokenManager) Generate(sessionID, userID, email string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid":     sessionID,
		"user_id": userID,
		"email":   email,
		"exp":     now.Add(m.sessionTTL).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return tokenString, nil
}

// Validate parses a session token and returns its claims
func (m *SessionTokenManager) Validate(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to parse session token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid session token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid session token claims")
	}

	sessionID, ok := claims["sid"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid sid in session token")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid user_id in session token")
	}

	email, ok := claims["email"].(string)
	if !ok {
		return nil, fmt.Errorf("invalid email in session token")
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid exp in session token")
	}

	iat, ok := claims["iat"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid iat in session token")
	}

	sessionClaims := &domain.SessionClaims{
		SessionID: sessionID,
		UserID:    userID,
		Email:     email,
		Exp:       int64(exp),
		Iat:       int64(iat),
	}

	if sessionClaims.IsExpired() {
		return nil, fmt.Errorf("session token is expired")
	}

	return sessionClaims, nil
}

// SessionTTL returns the fixed session lifetime
func (m *SessionTokenManager) SessionTTL() time.Duration {
	return m.sessionTTL
}
