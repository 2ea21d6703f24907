// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/guard"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/platform/validate"
	"github.com/taibuivan/bugtrack/pkg/pagination"
	"github.com/taibuivan/bugtrack/pkg/uuid"
)

// # Comments

// ListComments returns a page of an issue's comments, oldest first.
func (service *Service) ListComments(context context.Context, actor *sec.Principal, issueID string, params pagination.Params) ([]*Comment, int, error) {
	issue, err := service.find(context, issueID)
	if err != nil {
		return nil, 0, err
	}

	if err := service.guard.Authorize(actor, resourceOf(issue), guard.CommentRead); err != nil {
		return nil, 0, err
	}

	return service.comments.ListByIssue(context, issue.ID, params.Limit, params.Offset())
}

// AddComment posts trimmed content under an existing issue as the actor.
func (service *Service) AddComment(context context.Context, actor *sec.Principal, issueID string, input CommentInput) (*Comment, error) {
	issue, err := service.find(context, issueID)
	if err != nil {
		return nil, err
	}

	if err := service.guard.Authorize(actor, resourceOf(issue), guard.CommentCreate); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(input.Content)
	validator := &validate.Validator{}
	validator.Required(FieldContent, content).
		MaxLen(FieldContent, content, MaxContentLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuid.New(),
		IssueID:  issue.ID,
		AuthorID: actor.ID,
		Content:  content,
	}
	if err := service.comments.Create(context, comment); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "comment_added",
		slog.String("comment_id", comment.ID),
		slog.String("issue_id", issue.ID),
		slog.String("author_id", actor.ID),
	)
	return comment, nil
}

// DeleteComment removes a comment. A comment addressed under another issue is NOT_FOUND.
func (service *Service) DeleteComment(context context.Context, actor *sec.Principal, issueID, commentID string) error {
	if !uuid.Valid(commentID) {
		return apperr.NotFound("Comment")
	}

	comment, err := service.comments.FindByID(context, commentID)
	if err != nil {
		return err
	}
	if comment.IssueID != issueID {
		return apperr.NotFound("Comment")
	}

	resource := guard.Resource{Kind: commentKind, ID: comment.ID, OwnerID: comment.AuthorID}
	if err := service.guard.Authorize(actor, resource, guard.CommentDelete); err != nil {
		return err
	}

	if err := service.comments.Delete(context, comment.ID); err != nil {
		return err
	}

	service.logger.InfoContext(context, "comment_deleted",
		slog.String("comment_id", comment.ID),
		slog.String("issue_id", issueID),
		slog.String("actor_id", actor.ID),
	)
	return nil
}
