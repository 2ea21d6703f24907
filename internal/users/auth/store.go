// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		FindByUsername returns the account with the given username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *User: Hydrated entity
		  - error: apperr.NotFound or database failures
	*/
	FindByUsername(context context.Context, username string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr ALREADY_EXISTS on a unique violation, or database failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateRole replaces the role of an account.

		Parameters:
		  - context: context.Context
		  - id: string
		  - role: sec.Role

		Returns:
		  - error: apperr.NotFound or database failures
	*/
	UpdateRole(context context.Context, id string, role sec.Role) error

	/*
		TouchLastLogin stamps the last successful login time.

		Parameters:
		  - context: context.Context
		  - id: string
		  - at: time.Time

		Returns:
		  - error: Database failures
	*/
	TouchLastLogin(context context.Context, id string, at time.Time) error
}

// # Revocation Data Access

// RevocationStore is the durable set of revoked token ids.
type RevocationStore interface {

	/*
		Record inserts a revocation. A jti that is already present is not an error.

		Parameters:
		  - context: context.Context
		  - revocation: Revocation

		Returns:
		  - bool: true when this call created the record, false when it already existed
		  - error: Storage failures
	*/
	Record(context context.Context, revocation Revocation) (bool, error)

	/*
		IsRevoked reports whether jti has been recorded.

		Parameters:
		  - context: context.Context
		  - jti: string

		Returns:
		  - bool: Revocation state
		  - error: Storage failures
	*/
	IsRevoked(context context.Context, jti string) (bool, error)

	/*
		DeleteExpired removes records whose token expired before the cutoff.

		Parameters:
		  - context: context.Context
		  - before: time.Time

		Returns:
		  - int64: Number of deleted records
		  - error: Storage failures
	*/
	DeleteExpired(context context.Context, before time.Time) (int64, error)
}
