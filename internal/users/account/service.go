// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account manages registered users on behalf of other users: public
profile lookup and role administration.

Role changes take effect on the target's next login or refresh. Access tokens
already issued keep the role they were minted with until they expire.
*/
package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/guard"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/users/auth"
)

// resourceKind identifies user accounts to the guard.
const resourceKind = "user"

// # Service Layer

// Service orchestrates user administration.
type Service struct {
	users  auth.UserRepository
	guard  *guard.Guard
	logger *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(users auth.UserRepository, permissions *guard.Guard, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		guard:  permissions,
		logger: logger,
	}
}

/*
GetUser retrieves the account of any user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The account (password hash never serialized)
  - error: apperr.NotFound or storage failures
*/
func (service *Service) GetUser(context context.Context, userID string) (*auth.User, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_get_user_failed: %w", err)
	}
	return user, nil
}

/*
ChangeRole assigns a new role to a user. Admin only.

Parameters:
  - context: context.Context
  - actor: *sec.Principal (Caller)
  - userID: string (Target)
  - role: sec.Role

Returns:
  - *auth.User: The updated account
  - error: VALIDATION_ERROR, NOT_FOUND, FORBIDDEN or storage failures
*/
func (service *Service) ChangeRole(context context.Context, actor *sec.Principal, userID string, role sec.Role) (*auth.User, error) {
	if !role.Valid() {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   auth.FieldRole,
			Message: "Must be one of: admin, manager, developer",
		})
	}

	user, err := service.GetUser(context, userID)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, guard.Resource{Kind: resourceKind, ID: user.ID}, guard.UserChangeRole); err != nil {
		return nil, err
	}

	if user.Role == role {
		return user, nil
	}

	if err := service.users.UpdateRole(context, user.ID, role); err != nil {
		if apperr.IsAppError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("account_service_change_role_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_role_changed",
		slog.String("actor_id", actor.ID),
		slog.String("user_id", user.ID),
		slog.String("from", string(user.Role)),
		slog.String("to", string(role)),
	)

	user.Role = role
	return user, nil
}
