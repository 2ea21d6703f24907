// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/metrics"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/platform/validate"
	"github.com/taibuivan/bugtrack/pkg/uuid"
)

// # Contracts & Types

// TokenCodec signs and verifies session tokens. [*sec.TokenService] implements it.
type TokenCodec interface {
	Issue(kind sec.TokenKind, subject string, role sec.Role, timeToLive time.Duration) (string, *sec.Claims, error)
	Decode(token string) (*sec.Claims, error)
}

// CredentialVerifier hashes and checks passwords. [*sec.PasswordHasher] implements it.
type CredentialVerifier interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Lifetimes configures token TTLs.
type Lifetimes struct {
	Access  time.Duration
	Refresh time.Duration
}

// Service implements the session lifecycle: register, login, refresh, logout
// and per-request authentication.
type Service struct {
	users       UserRepository
	revocations RevocationStore
	tokens      TokenCodec
	credentials CredentialVerifier
	lifetimes   Lifetimes
	metrics     *metrics.Registry
	logger      *slog.Logger
	now         func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewService constructs a new session [Service].
func NewService(
	users UserRepository,
	revocations RevocationStore,
	tokens TokenCodec,
	credentials CredentialVerifier,
	lifetimes Lifetimes,
	registry *metrics.Registry,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:       users,
		revocations: revocations,
		tokens:      tokens,
		credentials: credentials,
		lifetimes:   lifetimes,
		metrics:     registry,
		logger:      logger,
		now:         time.Now,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity (role developer)
  - error: VALIDATION_ERROR, ALREADY_EXISTS or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = normalizeEmail(input.Email)

	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MinLen(FieldUsername, input.Username, MinUsernameLength).
		MaxLen(FieldUsername, input.Username, MaxUsernameLength).
		Username(FieldUsername, input.Username).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, MaxEmailLength).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength).
		MaxBytes(FieldPassword, input.Password, sec.MaxPasswordBytes)

	if err := validator.Err(); err != nil {
		service.metrics.AuthEvent(metrics.EventRegister, metrics.OutcomeFailure)
		return nil, err
	}

	// Pre-checks give a precise message; the unique constraints still catch races.
	if err := service.ensureAvailable(context, input.Email, input.Username); err != nil {
		service.metrics.AuthEvent(metrics.EventRegister, metrics.OutcomeFailure)
		return nil, err
	}

	hashedPassword, err := service.credentials.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         sec.RoleDeveloper,
		IsActive:     true,
	}

	if err := service.users.Create(context, user); err != nil {
		service.metrics.AuthEvent(metrics.EventRegister, metrics.OutcomeFailure)
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	service.metrics.AuthEvent(metrics.EventRegister, metrics.OutcomeSuccess)
	service.logger.InfoContext(context, "user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// ensureAvailable fails with ALREADY_EXISTS when the email or username is taken.
func (service *Service) ensureAvailable(context context.Context, email, username string) error {
	if _, err := service.users.FindByEmail(context, email); err == nil {
		return apperr.AlreadyExists("Email is already registered")
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return fmt.Errorf("auth_service_email_lookup_failed: %w", err)
	}

	if _, err := service.users.FindByUsername(context, username); err == nil {
		return apperr.AlreadyExists("Username is already taken")
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return fmt.Errorf("auth_service_username_lookup_failed: %w", err)
	}

	return nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email    string
	Password string
}

/*
Login verifies credentials and issues a token pair.

Every failure (unknown email, inactive account, wrong password) returns the
same INVALID_CREDENTIALS error. Unknown emails still pay one bcrypt
comparison against a dummy hash.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *TokenPair: Access token (role embedded) and refresh token (role omitted)
  - error: INVALID_CREDENTIALS or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*TokenPair, error) {
	user, err := service.users.FindByEmail(context, normalizeEmail(input.Email))
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, fmt.Errorf("auth_service_login_lookup_failed: %w", err)
		}
		service.credentials.Verify(input.Password, service.timingHash())
		return nil, service.loginFailed(context, "unknown_email")
	}

	if !service.credentials.Verify(input.Password, user.PasswordHash) {
		return nil, service.loginFailed(context, "wrong_password")
	}

	if !user.IsActive {
		return nil, service.loginFailed(context, "inactive_account")
	}

	pair, err := service.issuePair(user)
	if err != nil {
		return nil, err
	}

	if err := service.users.TouchLastLogin(context, user.ID, service.now().UTC()); err != nil {
		// The session is valid regardless; a stale lastloginat is not worth failing the login.
		service.logger.WarnContext(context, "last_login_update_failed",
			slog.String("user_id", user.ID),
			slog.Any("error", err),
		)
	}

	service.metrics.AuthEvent(metrics.EventLogin, metrics.OutcomeSuccess)
	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return pair, nil
}

func (service *Service) loginFailed(context context.Context, reason string) error {
	service.metrics.AuthEvent(metrics.EventLogin, metrics.OutcomeFailure)
	service.logger.InfoContext(context, "login_failed", slog.String("reason", reason))
	return apperr.InvalidCredentials()
}

// timingHash returns a bcrypt hash at the configured cost, computed once.
func (service *Service) timingHash() string {
	service.dummyOnce.Do(func() {
		hash, err := service.credentials.Hash(dummyPassword)
		if err != nil {
			service.logger.Error("dummy_hash_failed", slog.Any("error", err))
			return
		}
		service.dummyHash = hash
	})
	return service.dummyHash
}

// # Session Management

/*
Refresh rotates a refresh token into a fresh token pair.

The presented token's jti is recorded before the new pair is minted. If the
record already existed (replay, or a concurrent refresh won the race) the call
fails with TOKEN_REVOKED, so each refresh token is usable exactly once.

Parameters:
  - context: context.Context
  - refreshToken: string

Returns:
  - *TokenPair: New pair carrying the user's current role
  - error: TOKEN_INVALID, TOKEN_EXPIRED, TOKEN_REVOKED or internal failures
*/
func (service *Service) Refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	pair, err := service.refresh(context, refreshToken)
	if err != nil {
		service.metrics.AuthEvent(metrics.EventRefresh, metrics.OutcomeFailure)
		return nil, err
	}
	service.metrics.AuthEvent(metrics.EventRefresh, metrics.OutcomeSuccess)
	return pair, nil
}

func (service *Service) refresh(context context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := service.tokens.Decode(refreshToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != sec.TokenRefresh {
		return nil, apperr.TokenInvalid(errors.New("auth: access token presented for refresh"))
	}

	revoked, err := service.revocations.IsRevoked(context, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_lookup_failed: %w", err)
	}
	if revoked {
		service.logger.WarnContext(context, "refresh_token_reused",
			slog.String("user_id", claims.Subject),
			slog.String("jti", claims.ID),
		)
		return nil, apperr.TokenRevoked()
	}

	// Compare-and-revoke: only the caller that inserts the record may proceed.
	inserted, err := service.revocations.Record(context, revocationFor(claims, service.now().UTC()))
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_revoke_failed: %w", err)
	}
	if !inserted {
		service.logger.WarnContext(context, "refresh_race_lost",
			slog.String("user_id", claims.Subject),
			slog.String("jti", claims.ID),
		)
		return nil, apperr.TokenRevoked()
	}

	// The role always comes from the user record, never from an old token.
	user, err := service.users.FindByID(context, claims.Subject)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.TokenInvalid(errors.New("auth: token subject no longer exists"))
		}
		return nil, fmt.Errorf("auth_service_refresh_user_failed: %w", err)
	}
	if !user.IsActive {
		return nil, apperr.TokenInvalid(errors.New("auth: token subject is inactive"))
	}

	pair, err := service.issuePair(user)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "session_refreshed",
		slog.String("user_id", user.ID),
		slog.String("rotated_jti", claims.ID),
	)

	return pair, nil
}

/*
Logout revokes the given token. Revoking an already revoked token is a no-op.

Parameters:
  - context: context.Context
  - token: string (access or refresh)

Returns:
  - error: TOKEN_INVALID, TOKEN_EXPIRED or storage failures
*/
func (service *Service) Logout(context context.Context, token string) error {
	claims, err := service.tokens.Decode(token)
	if err != nil {
		service.metrics.AuthEvent(metrics.EventLogout, metrics.OutcomeFailure)
		return err
	}

	inserted, err := service.revocations.Record(context, revocationFor(claims, service.now().UTC()))
	if err != nil {
		service.metrics.AuthEvent(metrics.EventLogout, metrics.OutcomeFailure)
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}

	service.metrics.AuthEvent(metrics.EventLogout, metrics.OutcomeSuccess)
	if inserted {
		service.logger.InfoContext(context, "token_revoked",
			slog.String("user_id", claims.Subject),
			slog.String("kind", string(claims.Type)),
			slog.String("jti", claims.ID),
		)
	}

	return nil
}

/*
Authenticate resolves an access token into the request principal.

Parameters:
  - context: context.Context
  - accessToken: string

Returns:
  - *sec.Principal: Identity and role embedded in the token
  - error: TOKEN_INVALID, TOKEN_EXPIRED, TOKEN_REVOKED or storage failures
*/
func (service *Service) Authenticate(context context.Context, accessToken string) (*sec.Principal, error) {
	claims, err := service.tokens.Decode(accessToken)
	if err != nil {
		return nil, err
	}

	if claims.Type != sec.TokenAccess {
		return nil, apperr.TokenInvalid(errors.New("auth: refresh token presented as access token"))
	}

	revoked, err := service.revocations.IsRevoked(context, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_authenticate_lookup_failed: %w", err)
	}
	if revoked {
		return nil, apperr.TokenRevoked()
	}

	principal := claims.Principal()
	return &principal, nil
}

/*
Me returns the account behind a principal.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *User: Public user view
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}

// # Helpers

// issuePair mints an access token (role embedded) and a refresh token (role omitted).
func (service *Service) issuePair(user *User) (*TokenPair, error) {
	accessToken, _, err := service.tokens.Issue(sec.TokenAccess, user.ID, user.Role, service.lifetimes.Access)
	if err != nil {
		return nil, fmt.Errorf("auth_service_access_token_failed: %w", err)
	}

	refreshToken, _, err := service.tokens.Issue(sec.TokenRefresh, user.ID, "", service.lifetimes.Refresh)
	if err != nil {
		return nil, fmt.Errorf("auth_service_refresh_token_failed: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(service.lifetimes.Access.Seconds()),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
