// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Field Identifiers

const (
	FieldUsername     = "username"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldRefreshToken = "refresh_token"
	FieldRole         = "role"
)

// # Credential Constraints

const (
	// MinUsernameLength and MaxUsernameLength bound the username.
	MinUsernameLength = 3
	MaxUsernameLength = 50

	// MaxEmailLength matches the users.account column.
	MaxEmailLength = 255

	// MinPasswordLength is the shortest accepted password.
	MinPasswordLength = 8

	// TokenTypeBearer is the token_type of every issued pair.
	TokenTypeBearer = "bearer"

	// dummyPassword is hashed once and verified against when a login names an
	// unknown account, so both failure paths pay one bcrypt comparison.
	dummyPassword = "bugtrack-timing-equalizer"
)
