package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrSessionInvalid indicates a missing, malformed, expired or tampered
// session token.
var ErrSessionInvalid = errors.New("invalid session token")

// Principal is the typed, validated identity assembled once at the
// authentication boundary. Handlers trust it only after the session
// middleware has re-validated the signed token.
type Principal struct {
	UserID  uint   `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

type sessionClaims struct {
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// SessionManager issues and validates signed, expiring session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager constructs a session manager. TTL defaults to 30 days.
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue signs a session token embedding the principal.
func (m *SessionManager) Issue(principal Principal) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email:   principal.Email,
		IsAdmin: principal.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", principal.UserID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Parse validates a token and reconstructs the principal. Client-supplied
// claims are never trusted without the signature checking out.
func (m *SessionManager) Parse(tokenString string) (Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Principal{}, ErrSessionInvalid
	}

	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, ErrSessionInvalid
	}

	var userID uint
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil || userID == 0 {
		return Principal{}, ErrSessionInvalid
	}

	return Principal{UserID: userID, Email: claims.Email, IsAdmin: claims.IsAdmin}, nil
}
