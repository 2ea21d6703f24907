// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, JWT signing
// and verification) from the domain logic. The session layer consumes it
// through small interfaces so it can be replaced in tests.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/pkg/ids"
)

// TokenService signs and verifies compact JWTs with a [KeySet].
//
// Only the holder of the signing key can mint tokens; anyone with the
// verification key can check them.
type TokenService struct {
	keys   *KeySet
	issuer string
	now    func() time.Time
	parser *jwt.Parser
}

// Option customizes a [TokenService].
type Option func(*TokenService)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(service *TokenService) {
		service.now = now
	}
}

// NewTokenService creates a new TokenService bound to keys and issuer.
func NewTokenService(keys *KeySet, issuer string, options ...Option) (*TokenService, error) {
	if keys == nil {
		return nil, errors.New("sec: key set is required")
	}
	if issuer == "" {
		return nil, errors.New("sec: issuer is required")
	}

	service := &TokenService{keys: keys, issuer: issuer, now: time.Now}
	for _, option := range options {
		option(service)
	}

	service.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{keys.Algorithm()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(service.now),
	)

	return service, nil
}

// Issue mints a token of the given kind for subject, valid for timeToLive.
//
// The role is embedded for access tokens only.
func (service *TokenService) Issue(kind TokenKind, subject string, role Role, timeToLive time.Duration) (string, *Claims, error) {
	currentTime := service.now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		Type: kind,
	}
	if kind == TokenAccess {
		claims.Role = role
	}

	token, err := service.Encode(claims)
	if err != nil {
		return "", nil, err
	}
	return token, claims, nil
}

// Encode signs claims. A fresh jti is assigned when claims.ID is empty, and the
// service issuer is applied when none is set.
func (service *TokenService) Encode(claims *Claims) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("sec: token subject is required")
	}
	if !claims.Type.Valid() {
		return "", fmt.Errorf("sec: unknown token type %q", claims.Type)
	}
	if claims.ExpiresAt == nil {
		return "", errors.New("sec: token expiry is required")
	}

	if claims.ID == "" {
		claims.ID = ids.New()
	}
	if claims.Issuer == "" {
		claims.Issuer = service.issuer
	}

	token := jwt.NewWithClaims(service.keys.method, claims)
	signedToken, err := token.SignedString(service.keys.signKey)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// Decode checks the signature, algorithm, issuer and expiry of tokenString.
//
// # Errors
//   - apperr TOKEN_EXPIRED when exp is not in the future.
//   - apperr TOKEN_INVALID for every other failure.
func (service *TokenService) Decode(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := service.parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return service.keys.verifyKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperr.TokenExpired(err)
		}
		return nil, apperr.TokenInvalid(err)
	}

	if !token.Valid {
		return nil, apperr.TokenInvalid(errors.New("sec: token marked invalid"))
	}

	// The parser already enforced exp; keep an explicit check against the
	// same clock so expiry never depends on parser options alone.
	if !service.now().Before(claims.ExpiresAtTime()) {
		return nil, apperr.TokenExpired(jwt.ErrTokenExpired)
	}

	if err := validateShape(claims); err != nil {
		return nil, apperr.TokenInvalid(err)
	}

	return claims, nil
}

// validateShape rejects tokens that verify but do not carry the claims we mint.
func validateShape(claims *Claims) error {
	switch {
	case claims.Subject == "":
		return errors.New("sec: token has no subject")
	case claims.ID == "":
		return errors.New("sec: token has no jti")
	case !claims.Type.Valid():
		return fmt.Errorf("sec: unknown token type %q", claims.Type)
	case claims.Type == TokenAccess && !claims.Role.Valid():
		return fmt.Errorf("sec: access token has invalid role %q", claims.Role)
	}
	return nil
}
