// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements user identity and the session lifecycle.

It owns the User entity, the revocation store, and the session service that
registers users, verifies credentials, mints access/refresh token pairs,
rotates refresh tokens and revokes tokens on logout.

# Architecture

  - Service: register, login, refresh, logout and per-request authentication.
  - Repositories: Postgres for users and revocations, Redis as a revocation cache.
  - Security: bcrypt credentials and signed JWTs from the sec package.
*/
package auth

import (
	"time"

	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the tracker.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         sec.Role   `json:"role"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Principal returns the authorization view of the user.
func (user *User) Principal() *sec.Principal {
	return &sec.Principal{ID: user.ID, Role: user.Role}
}

// TokenPair is the result of a successful login or refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// Revocation marks a token id as permanently unusable.
//
// ExpiresAt is the token's own exp: once it has passed, the record carries no
// information (the codec rejects the token anyway) and may be reaped.
type Revocation struct {
	JTI       string
	Kind      sec.TokenKind
	Subject   string
	ExpiresAt time.Time
	RevokedAt time.Time
}

// revocationFor builds the record that revokes the token described by claims.
func revocationFor(claims *sec.Claims, revokedAt time.Time) Revocation {
	return Revocation{
		JTI:       claims.ID,
		Kind:      claims.Type,
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAtTime(),
		RevokedAt: revokedAt,
	}
}
