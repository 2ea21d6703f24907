// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/constants"
	"github.com/taibuivan/bugtrack/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/bugtrack/internal/platform/request"
	"github.com/taibuivan/bugtrack/internal/platform/respond"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

// PrincipalResolver turns a bearer access token into the caller's identity.
//
// The session service implements it: decode, reject refresh tokens, then
// consult the revocation store.
type PrincipalResolver interface {
	Authenticate(ctx context.Context, accessToken string) (*sec.Principal, error)
}

// Authenticate resolves the bearer token from the Authorization header.
//
// # Flow
//  1. No Authorization header: the request proceeds as anonymous.
//  2. Malformed header or rejected token: abort with 401.
//  3. Otherwise inject the [*sec.Principal] into the request context.
func Authenticate(resolver PrincipalResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Anonymous access
			if request.Header.Get(constants.HeaderAuthorization) == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// 2. Format validation
			token := requestutil.BearerToken(request)
			if token == "" {
				respond.Error(writer, request, apperr.TokenInvalid(nil))
				return
			}

			// 3. Token verification
			principal, err := resolver.Authenticate(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// 4. Context injection
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
