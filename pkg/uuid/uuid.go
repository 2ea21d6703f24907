// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates and checks the primary keys used by Bugtrack.

Users, projects, issues and comments are keyed by UUIDv7 values: they sort by
creation time, which keeps Postgres B-tree inserts append-only.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is unrecoverable
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// # Checks

// Valid reports whether value is a canonical UUID string of any version.
//
// Path parameters are checked with it before hitting the database, so a
// malformed id becomes a 404 instead of a Postgres cast error.
func Valid(value string) bool {
	if len(value) != 36 {
		return false
	}
	_, err := uuid.Parse(value)
	return err == nil
}
