// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/bugtrack/internal/platform/request"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

/*
TestBearerToken covers the accepted and rejected header shapes.
*/
func TestBearerToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abc.def.ghi", "abc.def.ghi"},
		{"lowercase_scheme", "bearer abc", "abc"},
		{"missing", "", ""},
		{"basic_scheme", "Basic dXNlcjpwdw==", ""},
		{"no_token", "Bearer", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			assert.Equal(t, tt.want, requestutil.BearerToken(request))
		})
	}
}

/*
TestRequiredPrincipal returns UNAUTHORIZED for anonymous requests.
*/
func TestRequiredPrincipal(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := requestutil.RequiredPrincipal(request)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthorized))

	principal := &sec.Principal{ID: "u1", Role: sec.RoleDeveloper}
	request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
	got, err := requestutil.RequiredPrincipal(request)
	require.NoError(t, err)
	assert.Equal(t, principal, got)
}

/*
TestDecodeJSON rejects malformed bodies with a validation error.
*/
func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"core"}`))
	require.NoError(t, requestutil.DecodeJSON(request, &target))
	assert.Equal(t, "core", target.Name)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err := requestutil.DecodeJSON(request, &target)
	assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
}
