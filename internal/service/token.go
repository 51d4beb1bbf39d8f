package service

import (
	"errors"
	"fmt"
	"time"

	"dokan-backend/internal/apperr"
	"dokan-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the session payload: the user id doubles as the subject,
// the role gates the admin surface.
type Claims struct {
	UserID string      `json:"uid"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenManager issues and validates HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Issue signs a session for the user and returns the token with its
// expiry.
func (m *TokenManager) Issue(user models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a raw token and returns its claims. Failures map to
// the 401 reason codes: "expired" for run-out sessions, "invalid" for
// everything else.
func (m *TokenManager) Parse(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, apperr.Auth("expired", "session expired, log in again")
	}
	if err != nil || !token.Valid {
		return Claims{}, apperr.Auth("invalid", "invalid session token").Wrap(err)
	}
	return claims, nil
}
