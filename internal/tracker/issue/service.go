// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package issue implements issues and their comments. Every operation loads
// the target first, so a missing resource is reported before a denied one.
package issue

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/guard"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/platform/validate"
	"github.com/taibuivan/bugtrack/internal/tracker/project"
	"github.com/taibuivan/bugtrack/internal/users/auth"
	"github.com/taibuivan/bugtrack/pkg/pagination"
	"github.com/taibuivan/bugtrack/pkg/uuid"
)

// ProjectFinder resolves the project an issue belongs to. [*project.Service] implements it.
type ProjectFinder interface {
	Find(context context.Context, id string) (*project.Project, error)
}

// UserFinder resolves assignees. [auth.UserRepository] implements it.
type UserFinder interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}

// Service coordinates issue and comment storage with the permission guard.
type Service struct {
	issues   Repository
	comments CommentRepository
	projects ProjectFinder
	users    UserFinder
	guard    *guard.Guard
	logger   *slog.Logger
}

// NewService constructs a new issue [Service].
func NewService(
	issues Repository,
	comments CommentRepository,
	projects ProjectFinder,
	users UserFinder,
	permissions *guard.Guard,
	logger *slog.Logger,
) *Service {
	return &Service{
		issues:   issues,
		comments: comments,
		projects: projects,
		users:    users,
		guard:    permissions,
		logger:   logger,
	}
}

// # Queries

/*
List returns a page of issues, newest first.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - filter: Filter (project, status, assignee; all optional)
  - params: pagination.Params

Returns:
  - []*Issue, int: The page and the total match count
  - error: NOT_FOUND for an unknown project, VALIDATION_ERROR for an unknown status
*/
func (service *Service) List(context context.Context, actor *sec.Principal, filter Filter, params pagination.Params) ([]*Issue, int, error) {
	if filter.ProjectID != "" {
		if _, err := service.projects.Find(context, filter.ProjectID); err != nil {
			return nil, 0, err
		}
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, validate.RequiredError(FieldStatus, "Unknown status")
	}
	if filter.AssigneeID != "" && !uuid.Valid(filter.AssigneeID) {
		return []*Issue{}, 0, nil
	}

	if err := service.guard.Authorize(actor, guard.Resource{Kind: issueKind}, guard.IssueRead); err != nil {
		return nil, 0, err
	}

	return service.issues.List(context, filter, params.Limit, params.Offset())
}

// Get returns one issue by id.
func (service *Service) Get(context context.Context, actor *sec.Principal, id string) (*Issue, error) {
	issue, err := service.find(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, resourceOf(issue), guard.IssueRead); err != nil {
		return nil, err
	}
	return issue, nil
}

// # Commands

/*
Create files an issue in an existing project with the actor as reporter.

Parameters:
  - context: context.Context
  - actor: *sec.Principal
  - input: CreateInput (priority defaults to medium, status to open)

Returns:
  - *Issue: The stored issue
  - error: VALIDATION_ERROR, NOT_FOUND for an unknown project, CONFLICT for an archived one
*/
func (service *Service) Create(context context.Context, actor *sec.Principal, input CreateInput) (*Issue, error) {
	if err := service.guard.Authorize(actor, guard.Resource{Kind: issueKind}, guard.IssueCreate); err != nil {
		return nil, err
	}

	if input.Priority == "" {
		input.Priority = PriorityMedium
	}

	issue := &Issue{
		ID:          uuid.New(),
		ProjectID:   input.ProjectID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Status:      StatusOpen,
		Priority:    input.Priority,
		ReporterID:  actor.ID,
		DueDate:     input.DueDate,
	}

	validator := &validate.Validator{}
	validator.Required(FieldProjectID, issue.ProjectID)
	validateIssue(validator, issue)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	parent, err := service.projects.Find(context, issue.ProjectID)
	if err != nil {
		return nil, err
	}
	if parent.IsArchived {
		return nil, apperr.Conflict("Project is archived")
	}

	if err := service.issues.Create(context, issue); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "issue_created",
		slog.String("issue_id", issue.ID),
		slog.String("project_id", issue.ProjectID),
		slog.String("reporter_id", actor.ID),
	)
	return issue, nil
}

// Update merges a partial update. Allowed for managers and the assignee.
func (service *Service) Update(context context.Context, actor *sec.Principal, id string, input UpdateInput) (*Issue, error) {
	issue, err := service.find(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, resourceOf(issue), guard.IssueUpdate); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Custom(FieldTitle, input.Title.Set && input.Title.Null, "Cannot be null").
		Custom(FieldDescription, input.Description.Set && input.Description.Null, "Cannot be null").
		Custom(FieldStatus, input.Status.Set && input.Status.Null, "Cannot be null").
		Custom(FieldPriority, input.Priority.Set && input.Priority.Null, "Cannot be null")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	input.Title.Value = strings.TrimSpace(input.Title.Value)
	input.Apply(issue)

	validator = &validate.Validator{}
	validateIssue(validator, issue)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if err := service.issues.Update(context, issue); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "issue_updated",
		slog.String("issue_id", issue.ID),
		slog.String("actor_id", actor.ID),
	)
	return issue, nil
}

// Assign sets the assignee. The user must exist and be active.
func (service *Service) Assign(context context.Context, actor *sec.Principal, id, userID string) (*Issue, error) {
	issue, err := service.find(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, resourceOf(issue), guard.IssueAssign); err != nil {
		return nil, err
	}

	if !uuid.Valid(userID) {
		return nil, apperr.NotFound("User")
	}
	assignee, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}
	if !assignee.IsActive {
		return nil, apperr.Unprocessable("Cannot assign an inactive user")
	}

	issue.AssigneeID = &assignee.ID
	if err := service.issues.Update(context, issue); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "issue_assigned",
		slog.String("issue_id", issue.ID),
		slog.String("assignee_id", assignee.ID),
		slog.String("actor_id", actor.ID),
	)
	return issue, nil
}

// Close marks the issue closed. Closing a closed issue is a no-op.
func (service *Service) Close(context context.Context, actor *sec.Principal, id string) (*Issue, error) {
	issue, err := service.find(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, resourceOf(issue), guard.IssueClose); err != nil {
		return nil, err
	}

	if issue.Status == StatusClosed {
		return issue, nil
	}

	issue.Status = StatusClosed
	if err := service.issues.Update(context, issue); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "issue_closed",
		slog.String("issue_id", issue.ID),
		slog.String("actor_id", actor.ID),
	)
	return issue, nil
}

// # Helpers

func (service *Service) find(context context.Context, id string) (*Issue, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Issue")
	}
	return service.issues.FindByID(context, id)
}

func validateIssue(validator *validate.Validator, issue *Issue) {
	validator.Required(FieldTitle, issue.Title).
		MaxLen(FieldTitle, issue.Title, MaxTitleLength).
		OneOf(FieldStatus, string(issue.Status),
			string(StatusOpen), string(StatusInProgress), string(StatusResolved), string(StatusClosed), string(StatusReopened)).
		OneOf(FieldPriority, string(issue.Priority),
			string(PriorityLow), string(PriorityMedium), string(PriorityHigh), string(PriorityCritical))
}

func resourceOf(issue *Issue) guard.Resource {
	return guard.Resource{
		Kind:       issueKind,
		ID:         issue.ID,
		OwnerID:    issue.ReporterID,
		AssigneeID: issue.assignee(),
	}
}
