package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RefreshSession is a single-use refresh credential. Rotation revokes the
// previous session for the user before inserting the replacement, so at most
// one non-revoked session exists per user at any time.
type RefreshSession struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Token     string    `json:"-" db:"token"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	Revoked   bool      `json:"revoked" db:"revoked"`
}

// Usable reports whether the session can still redeem a refresh: not revoked
// and strictly before its expiry instant.
func (s *RefreshSession) Usable(now time.Time) bool {
	return !s.Revoked && now.Before(s.ExpiresAt)
}

type Claims struct {
	jwt.RegisteredClaims
	Id       string   `json:"jti_id"`
	UserID   string   `json:"user_id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
}
