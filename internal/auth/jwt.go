package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token purposes. A reset token must never be accepted where a login token is
// expected, and vice versa.
const (
	PurposeLogin = "login"
	PurposeReset = "password-reset"
)

// Claims represents the JWT payload.
type Claims struct {
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 tokens for a fixed issuer and key.
type Tokens struct {
	issuer string
	key    []byte
}

// NewTokens creates a token issuer/verifier.
func NewTokens(issuer, key string) *Tokens {
	return &Tokens{issuer: issuer, key: []byte(key)}
}

// IssueLogin signs a login token for a user id.
func (t *Tokens) IssueLogin(userID, role string, ttl time.Duration) (string, error) {
	return t.issue(userID, role, PurposeLogin, ttl)
}

// IssueReset signs a short-lived password-reset token for a user id.
func (t *Tokens) IssueReset(userID string, ttl time.Duration) (string, error) {
	return t.issue(userID, "", PurposeReset, ttl)
}

func (t *Tokens) issue(subject, role, purpose string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.key)
}

// Parse validates a token and checks its purpose.
func (t *Tokens) Parse(tokenStr, purpose string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.key, nil
	})
	if err != nil {
		return Claims{}, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return Claims{}, errors.New("invalid token")
	}
	if t.issuer != "" && claims.Issuer != t.issuer {
		return Claims{}, errors.New("issuer mismatch")
	}
	if claims.Purpose != purpose {
		return Claims{}, errors.New("token purpose mismatch")
	}
	return *claims, nil
}
