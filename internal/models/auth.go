package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Actor is the authenticated caller every core operation is checked against.
type Actor struct {
	UserID string
	Role   Role
}

// Is reports whether the actor is the given user in the given role.
func (a Actor) Is(userID string, role Role) bool {
	return a.UserID != "" && a.UserID == userID && a.Role == role
}

// Account is an Identity Service user.
type Account struct {
	ID        string    `db:"id" json:"uid"`
	Email     string    `db:"email" json:"email"`
	Password  string    `db:"password_hash" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Session is a signed-in Identity Service session kept in Redis.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// Actor converts the claims to the caller identity used by services.
func (c *JWTClaims) Actor() Actor {
	if c == nil {
		return Actor{}
	}
	return Actor{UserID: c.UserID, Role: c.Role}
}

// SessionID returns the session the token was minted for.
func (c *JWTClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}
