// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package project manages the projects that group issues.

Any authenticated user can browse projects. Managers create and edit them,
only admins delete them. Projects are addressable by id or by the slug
derived from their (unique) name.
*/
package project

import (
	"time"

	"github.com/taibuivan/bugtrack/pkg/optional"
)

// Project is a named container of issues.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	IsArchived  bool      `json:"is_archived"`
	CreatedByID string    `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Filter narrows a project listing.
type Filter struct {
	Query           string // case-insensitive match on name
	IncludeArchived bool
}

// CreateInput carries the fields of a new project.
type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// UpdateInput carries a partial update. Absent fields are left untouched.
type UpdateInput struct {
	Name        optional.Field[string] `json:"name"`
	Description optional.Field[string] `json:"description"`
	IsArchived  optional.Field[bool]   `json:"is_archived"`
}

// Apply merges the input into project. The slug follows the name.
func (input UpdateInput) Apply(project *Project) {
	input.Name.Apply(&project.Name)
	input.Description.ApplyPtr(&project.Description)
	input.IsArchived.Apply(&project.IsArchived)
}

// Field names for validation
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldIsArchived  = "is_archived"
)

const (
	// MaxNameLength matches core.project.name.
	MaxNameLength = 100

	resourceKind = "project"
)
