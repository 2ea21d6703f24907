// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	requestutil "github.com/taibuivan/bugtrack/internal/platform/request"
	"github.com/taibuivan/bugtrack/internal/platform/respond"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/platform/validate"
	"github.com/taibuivan/bugtrack/internal/users/auth"
	"github.com/taibuivan/bugtrack/pkg/uuid"
)

// Handler implements the HTTP layer for user administration.
//
// Routes expect an authenticated principal in the request context.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// Routes returns a [chi.Router] configured with the user endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{userID}", handler.getUser)

	// Admin only, enforced by the guard after the target user is loaded.
	router.Patch("/{userID}/role", handler.changeRole)

	return router
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
GET /api/v1/users/{userID}.

Response:
  - 200: User
  - 404: NOT_FOUND
*/
func (handler *Handler) getUser(writer http.ResponseWriter, request *http.Request) {
	userID := requestutil.Param(request, "userID")
	if !uuid.Valid(userID) {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	user, err := handler.accountService.GetUser(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
PATCH /api/v1/users/{userID}/role.

Request:
  - Body: changeRoleRequest (Role)

Response:
  - 200: User: Updated account
  - 400: VALIDATION_ERROR
  - 403: FORBIDDEN
  - 404: NOT_FOUND
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(auth.FieldRole, input.Role).
		OneOf(auth.FieldRole, input.Role, string(sec.RoleAdmin), string(sec.RoleManager), string(sec.RoleDeveloper))

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID := requestutil.Param(request, "userID")
	if !uuid.Valid(userID) {
		respond.Error(writer, request, apperr.NotFound("User"))
		return
	}

	user, err := handler.accountService.ChangeRole(request.Context(), principal, userID, sec.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
