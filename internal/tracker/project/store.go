// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package project

import "context"

// Repository is the persistence contract for projects.
//
// Lookups return apperr NOT_FOUND for missing rows; Create and Update return
// apperr CONFLICT when the name (or its slug) is taken.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Project, int, error)
	FindByID(context context.Context, id string) (*Project, error)
	FindBySlug(context context.Context, slug string) (*Project, error)
	Create(context context.Context, project *Project) error
	Update(context context.Context, project *Project) error
	Delete(context context.Context, id string) error
}
