// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/dberr"
)

/*
TestWrap classifies the storage errors the repositories care about.
*/
func TestWrap(t *testing.T) {
	unique := &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "project_name_key"}
	foreign := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique", unique, apperr.CodeConflict},
		{"foreign_key", foreign, apperr.CodeNotFound},
		{"other", errors.New("connection refused"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := dberr.Wrap(tt.err, "Project")
			require.Error(t, err)
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "Project"))
}

/*
TestIsUniqueViolation optionally narrows by constraint name.
*/
func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "account_email_key"})

	assert.True(t, dberr.IsUniqueViolation(err))
	assert.True(t, dberr.IsUniqueViolation(err, "account_email_key"))
	assert.False(t, dberr.IsUniqueViolation(err, "account_username_key"))
	assert.False(t, dberr.IsUniqueViolation(errors.New("plain")))
}
