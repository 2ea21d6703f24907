// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/guard"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/platform/validate"
	"github.com/taibuivan/bugtrack/pkg/pagination"
	"github.com/taibuivan/bugtrack/pkg/slug"
	"github.com/taibuivan/bugtrack/pkg/uuid"
)

type Service struct {
	repo   Repository
	guard  *guard.Guard
	logger *slog.Logger
}

func NewService(repo Repository, permissions *guard.Guard, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		guard:  permissions,
		logger: logger,
	}
}

func (service *Service) List(context context.Context, actor *sec.Principal, filter Filter, params pagination.Params) ([]*Project, int, error) {
	if err := service.guard.Authorize(actor, guard.Resource{Kind: resourceKind}, guard.ProjectRead); err != nil {
		return nil, 0, err
	}
	return service.repo.List(context, filter, params.Limit, params.Offset())
}

// Get resolves a project by id or by slug.
func (service *Service) Get(context context.Context, actor *sec.Principal, ref string) (*Project, error) {
	project, err := service.find(context, ref)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, resourceOf(project), guard.ProjectRead); err != nil {
		return nil, err
	}
	return project, nil
}

// Find returns the project with the given id, without permission checks.
// Other services use it to check that a project exists.
func (service *Service) Find(context context.Context, id string) (*Project, error) {
	if !uuid.Valid(id) {
		return nil, apperr.NotFound("Project")
	}
	return service.repo.FindByID(context, id)
}

func (service *Service) find(context context.Context, ref string) (*Project, error) {
	switch {
	case uuid.Valid(ref):
		return service.repo.FindByID(context, ref)
	case slug.Valid(ref):
		return service.repo.FindBySlug(context, ref)
	default:
		return nil, apperr.NotFound("Project")
	}
}

func (service *Service) Create(context context.Context, actor *sec.Principal, input CreateInput) (*Project, error) {
	if err := service.guard.Authorize(actor, guard.Resource{Kind: resourceKind}, guard.ProjectCreate); err != nil {
		return nil, err
	}

	project := &Project{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		CreatedByID: actor.ID,
	}
	project.Slug = slug.From(project.Name)

	if err := validateProject(project); err != nil {
		return nil, err
	}

	if err := service.repo.Create(context, project); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "project_created",
		slog.String("project_id", project.ID),
		slog.String("slug", project.Slug),
		slog.String("actor_id", actor.ID),
	)
	return project, nil
}

func (service *Service) Update(context context.Context, actor *sec.Principal, id string, input UpdateInput) (*Project, error) {
	project, err := service.Find(context, id)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, resourceOf(project), guard.ProjectUpdate); err != nil {
		return nil, err
	}

	if input.Name.Set && input.Name.Null {
		return nil, validate.RequiredError(FieldName, "This field is required")
	}
	if input.IsArchived.Set && input.IsArchived.Null {
		return nil, validate.RequiredError(FieldIsArchived, "Must be true or false")
	}

	input.Name.Value = strings.TrimSpace(input.Name.Value)
	input.Apply(project)
	project.Slug = slug.From(project.Name)

	if err := validateProject(project); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, project); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "project_updated",
		slog.String("project_id", project.ID),
		slog.String("actor_id", actor.ID),
	)
	return project, nil
}

func (service *Service) Delete(context context.Context, actor *sec.Principal, id string) error {
	project, err := service.Find(context, id)
	if err != nil {
		return err
	}

	if err := service.guard.Authorize(actor, resourceOf(project), guard.ProjectDelete); err != nil {
		return err
	}

	if err := service.repo.Delete(context, project.ID); err != nil {
		return err
	}

	service.logger.WarnContext(context, "project_deleted",
		slog.String("project_id", project.ID),
		slog.String("actor_id", actor.ID),
	)
	return nil
}

func validateProject(project *Project) error {
	validator := &validate.Validator{}
	validator.Required(FieldName, project.Name).
		MaxLen(FieldName, project.Name, MaxNameLength).
		Custom(FieldName, project.Name != "" && project.Slug == "", "Must contain at least one letter or digit")

	return validator.Err()
}

func resourceOf(project *Project) guard.Resource {
	return guard.Resource{Kind: resourceKind, ID: project.ID, OwnerID: project.CreatedByID}
}
