// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import "context"

// Repository is the persistence contract for issues.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Issue, int, error)
	FindByID(context context.Context, id string) (*Issue, error)
	Create(context context.Context, issue *Issue) error
	Update(context context.Context, issue *Issue) error
}

// CommentRepository is the persistence contract for comments.
type CommentRepository interface {
	ListByIssue(context context.Context, issueID string, limit, offset int) ([]*Comment, int, error)
	FindByID(context context.Context, id string) (*Comment, error)
	Create(context context.Context, comment *Comment) error
	Delete(context context.Context, id string) error
}
