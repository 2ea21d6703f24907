// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/database/schema"
	"github.com/taibuivan/bugtrack/internal/platform/dberr"
	"github.com/taibuivan/bugtrack/internal/platform/postgres"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

// Unique constraints of users.account, see data/migrations.
const (
	constraintAccountEmail    = "account_email_key"
	constraintAccountUsername = "account_username_key"
)

// # User Repository

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	db postgres.Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db postgres.Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// userSelect is the column list every user lookup scans.
var userSelect = schema.List(schema.UserAccount.Columns())

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.IsActive,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (repository *PostgresUserRepository) findBy(context context.Context, column, value string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, userSelect, schema.UserAccount.Table, column)

	user, err := scanUser(repository.db.QueryRow(context, query, value))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_%s_failed: %w", column, err)
	}

	return user, nil
}

/*
FindByID retrieves a user record by primary key.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.ID, id)
}

/*
FindByEmail retrieves a user record by their unique email address.

Emails are stored lowercased; callers pass the normalized form.
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Email, email)
}

// FindByUsername retrieves a user record by their unique username.
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*User, error) {
	return repository.findBy(context, schema.UserAccount.Username, username)
}

/*
Create persists a new user record into the users.account table.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr ALREADY_EXISTS when the email or username is taken
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.UserAccount.Table,
		schema.UserAccount.ID, schema.UserAccount.Username, schema.UserAccount.Email,
		schema.UserAccount.Password, schema.UserAccount.Role, schema.UserAccount.IsActive,
		schema.UserAccount.CreatedAt, schema.UserAccount.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.IsActive,
		user.CreatedAt,
		user.UpdatedAt,
	)

	switch {
	case err == nil:
		return nil
	case dberr.IsUniqueViolation(err, constraintAccountEmail):
		return apperr.AlreadyExists("Email is already registered")
	case dberr.IsUniqueViolation(err, constraintAccountUsername):
		return apperr.AlreadyExists("Username is already taken")
	default:
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}
}

// UpdateRole replaces the role of an account.
func (repository *PostgresUserRepository) UpdateRole(context context.Context, id string, role sec.Role) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2, %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.Role, schema.UserAccount.UpdatedAt, schema.UserAccount.ID)

	tag, err := repository.db.Exec(context, query, id, role)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_role_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}
	return nil
}

// TouchLastLogin stamps lastloginat.
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, id string, at time.Time) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.LastLoginAt, schema.UserAccount.ID)

	if _, err := repository.db.Exec(context, query, id, at); err != nil {
		return fmt.Errorf("postgres_user_repo_touch_last_login_failed: %w", err)
	}
	return nil
}

// # Revocation Store

// PostgresRevocationStore implements [RevocationStore] on users.revokedtoken.
//
// The UNIQUE(jti) constraint makes Record a compare-and-set: of two concurrent
// inserts for the same jti exactly one reports inserted == true.
type PostgresRevocationStore struct {
	db postgres.Querier
}

// NewRevocationStore creates the durable revocation store.
func NewRevocationStore(db postgres.Querier) *PostgresRevocationStore {
	return &PostgresRevocationStore{db: db}
}

/*
Record inserts a revocation record, ignoring duplicates.

Parameters:
  - context: context.Context
  - revocation: Revocation

Returns:
  - bool: Whether this call inserted the row
  - error: Database failures
*/
func (store *PostgresRevocationStore) Record(context context.Context, revocation Revocation) (bool, error) {
	table := schema.UserRevokedToken
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (%s) DO NOTHING`,
		table.Table, schema.List(table.Columns()), table.JTI,
	)

	revokedAt := revocation.RevokedAt
	if revokedAt.IsZero() {
		revokedAt = time.Now().UTC()
	}

	tag, err := store.db.Exec(context, query,
		revocation.JTI,
		revocation.Kind,
		revocation.Subject,
		revocation.ExpiresAt,
		revokedAt,
	)
	if err != nil {
		return false, fmt.Errorf("postgres_revocation_record_failed: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// IsRevoked reports whether jti has a revocation record.
func (store *PostgresRevocationStore) IsRevoked(context context.Context, jti string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`,
		schema.UserRevokedToken.Table, schema.UserRevokedToken.JTI)

	var revoked bool
	if err := store.db.QueryRow(context, query, jti).Scan(&revoked); err != nil {
		return false, fmt.Errorf("postgres_revocation_lookup_failed: %w", err)
	}
	return revoked, nil
}

// DeleteExpired removes records whose token expired before the cutoff.
func (store *PostgresRevocationStore) DeleteExpired(context context.Context, before time.Time) (int64, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s < $1`,
		schema.UserRevokedToken.Table, schema.UserRevokedToken.ExpiresAt)

	tag, err := store.db.Exec(context, query, before)
	if err != nil {
		return 0, fmt.Errorf("postgres_revocation_delete_expired_failed: %w", err)
	}
	return tag.RowsAffected(), nil
}
