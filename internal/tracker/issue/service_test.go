// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/guard"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
	"github.com/taibuivan/bugtrack/internal/tracker/project"
	"github.com/taibuivan/bugtrack/internal/users/auth"
	"github.com/taibuivan/bugtrack/pkg/optional"
	"github.com/taibuivan/bugtrack/pkg/pagination"
	"github.com/taibuivan/bugtrack/pkg/uuid"
)

type world struct {
	service  *Service
	issues   *memoryIssues
	comments *memoryComments

	project  *project.Project
	archived *project.Project

	admin     *sec.Principal
	manager   *sec.Principal
	assignee  *sec.Principal
	bystander *sec.Principal
	inactive  *auth.User
}

func newWorld() *world {
	w := &world{
		issues:    newMemoryIssues(),
		comments:  newMemoryComments(),
		project:   &project.Project{ID: uuid.New(), Name: "Backend", Slug: "backend"},
		archived:  &project.Project{ID: uuid.New(), Name: "Legacy", Slug: "legacy", IsArchived: true},
		admin:     &sec.Principal{ID: uuid.New(), Role: sec.RoleAdmin},
		manager:   &sec.Principal{ID: uuid.New(), Role: sec.RoleManager},
		assignee:  &sec.Principal{ID: uuid.New(), Role: sec.RoleDeveloper},
		bystander: &sec.Principal{ID: uuid.New(), Role: sec.RoleDeveloper},
	}
	w.inactive = &auth.User{ID: uuid.New(), Username: "gone", Role: sec.RoleDeveloper, IsActive: false}

	projects := stubProjects{w.project.ID: w.project, w.archived.ID: w.archived}
	users := stubUsers{
		w.assignee.ID:  {ID: w.assignee.ID, Username: "assignee", Role: sec.RoleDeveloper, IsActive: true},
		w.bystander.ID: {ID: w.bystander.ID, Username: "bystander", Role: sec.RoleDeveloper, IsActive: true},
		w.inactive.ID:  w.inactive,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	w.service = NewService(w.issues, w.comments, projects, users, guard.Default(), logger)
	return w
}

// assignedIssue files an issue as the bystander and assigns it to the assignee.
func (w *world) assignedIssue(t *testing.T) *Issue {
	t.Helper()
	ctx := context.Background()

	issue, err := w.service.Create(ctx, w.bystander, CreateInput{ProjectID: w.project.ID, Title: "Login page crashes"})
	require.NoError(t, err)

	issue, err = w.service.Assign(ctx, w.manager, issue.ID, w.assignee.ID)
	require.NoError(t, err)
	return issue
}

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperr.HasCode(err, code), "want %s, got %v", code, err)
}

/*
TestService_Create covers defaults and the parent project checks.
*/
func TestService_Create(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	due, err := ParseDate("2026-12-31")
	require.NoError(t, err)

	issue, err := w.service.Create(ctx, w.bystander, CreateInput{
		ProjectID: w.project.ID,
		Title:     "  Crash on save ",
		DueDate:   &due,
	})
	require.NoError(t, err)
	assert.Equal(t, "Crash on save", issue.Title)
	assert.Equal(t, StatusOpen, issue.Status)
	assert.Equal(t, PriorityMedium, issue.Priority)
	assert.Equal(t, w.bystander.ID, issue.ReporterID)
	assert.Nil(t, issue.AssigneeID)
	assert.Equal(t, "2026-12-31", issue.DueDate.Format(dateLayout))

	tests := []struct {
		name  string
		input CreateInput
		code  string
	}{
		{"unknown_project", CreateInput{ProjectID: uuid.New(), Title: "x"}, apperr.CodeNotFound},
		{"archived_project", CreateInput{ProjectID: w.archived.ID, Title: "x"}, apperr.CodeConflict},
		{"missing_project", CreateInput{Title: "x"}, apperr.CodeValidation},
		{"missing_title", CreateInput{ProjectID: w.project.ID}, apperr.CodeValidation},
		{"bad_priority", CreateInput{ProjectID: w.project.ID, Title: "x", Priority: "urgent"}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.service.Create(ctx, w.bystander, tt.input)
			assertCode(t, err, tt.code)
		})
	}
}

/*
TestService_Update_Permissions: the assignee and managers may update, other developers may not.
*/
func TestService_Update_Permissions(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	issue := w.assignedIssue(t)

	tests := []struct {
		name  string
		actor func(w *world) *sec.Principal
		code  string
	}{
		{"assignee", func(w *world) *sec.Principal { return w.assignee }, ""},
		{"other_developer", func(w *world) *sec.Principal { return w.bystander }, apperr.CodeForbidden},
		{"manager", func(w *world) *sec.Principal { return w.manager }, ""},
		{"admin", func(w *world) *sec.Principal { return w.admin }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := w.service.Update(ctx, tt.actor(w), issue.ID, UpdateInput{Status: optional.Of(StatusInProgress)})
			if tt.code != "" {
				assertCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, StatusInProgress, updated.Status)
		})
	}

	// The reporter is not the assignee: filing an issue grants no edit rights.
	_, err := w.service.Update(ctx, w.bystander, issue.ID, UpdateInput{Title: optional.Of("Renamed")})
	assertCode(t, err, apperr.CodeForbidden)
}

/*
TestService_Update_Merge verifies partial merge and null handling.
*/
func TestService_Update_Merge(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	due, err := ParseDate("2026-06-01")
	require.NoError(t, err)
	issue, err := w.service.Create(ctx, w.manager, CreateInput{
		ProjectID:   w.project.ID,
		Title:       "Slow search",
		Description: "p95 over 2s",
		Priority:    PriorityHigh,
		DueDate:     &due,
	})
	require.NoError(t, err)

	var input UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"priority":"critical","due_date":null}`), &input))

	updated, err := w.service.Update(ctx, w.manager, issue.ID, input)
	require.NoError(t, err)
	assert.Equal(t, PriorityCritical, updated.Priority)
	assert.Nil(t, updated.DueDate, "null clears the due date")
	assert.Equal(t, "Slow search", updated.Title, "absent fields are untouched")
	assert.Equal(t, "p95 over 2s", updated.Description)

	require.NoError(t, json.Unmarshal([]byte(`{"due_date":"2026-07-15"}`), &input))
	updated, err = w.service.Update(ctx, w.manager, issue.ID, input)
	require.NoError(t, err)
	require.NotNil(t, updated.DueDate)
	assert.Equal(t, "2026-07-15", updated.DueDate.Format(dateLayout))

	_, err = w.service.Update(ctx, w.manager, issue.ID, UpdateInput{Title: optional.Nil[string]()})
	assertCode(t, err, apperr.CodeValidation)

	_, err = w.service.Update(ctx, w.manager, issue.ID, UpdateInput{Status: optional.Of(Status("done"))})
	assertCode(t, err, apperr.CodeValidation)
}

/*
TestService_NotFoundBeforeForbidden verifies that a missing target is reported
as NOT_FOUND even to callers who would be forbidden.
*/
func TestService_NotFoundBeforeForbidden(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	missing := uuid.New()

	_, err := w.service.Update(ctx, w.bystander, missing, UpdateInput{Title: optional.Of("x")})
	assertCode(t, err, apperr.CodeNotFound)

	_, err = w.service.Assign(ctx, w.bystander, missing, w.assignee.ID)
	assertCode(t, err, apperr.CodeNotFound)

	_, err = w.service.Close(ctx, w.bystander, "not-a-uuid")
	assertCode(t, err, apperr.CodeNotFound)

	err = w.service.DeleteComment(ctx, w.bystander, missing, uuid.New())
	assertCode(t, err, apperr.CodeNotFound)
}

/*
TestService_Assign covers assignment rules.
*/
func TestService_Assign(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	issue := w.assignedIssue(t)
	require.NotNil(t, issue.AssigneeID)
	assert.Equal(t, w.assignee.ID, *issue.AssigneeID)

	_, err := w.service.Assign(ctx, w.assignee, issue.ID, w.bystander.ID)
	assertCode(t, err, apperr.CodeForbidden)

	_, err = w.service.Assign(ctx, w.manager, issue.ID, uuid.New())
	assertCode(t, err, apperr.CodeNotFound)

	_, err = w.service.Assign(ctx, w.manager, issue.ID, w.inactive.ID)
	assertCode(t, err, apperr.CodeUnprocessable)

	reassigned, err := w.service.Assign(ctx, w.admin, issue.ID, w.bystander.ID)
	require.NoError(t, err)
	assert.Equal(t, w.bystander.ID, *reassigned.AssigneeID)

	// The former assignee lost edit rights, the new one gained them.
	_, err = w.service.Update(ctx, w.assignee, issue.ID, UpdateInput{Status: optional.Of(StatusResolved)})
	assertCode(t, err, apperr.CodeForbidden)
	_, err = w.service.Update(ctx, w.bystander, issue.ID, UpdateInput{Status: optional.Of(StatusResolved)})
	assert.NoError(t, err)
}

/*
TestService_Close is manager only and idempotent.
*/
func TestService_Close(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	issue := w.assignedIssue(t)

	_, err := w.service.Close(ctx, w.assignee, issue.ID)
	assertCode(t, err, apperr.CodeForbidden)

	closed, err := w.service.Close(ctx, w.manager, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, closed.Status)

	closed, err = w.service.Close(ctx, w.manager, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusClosed, closed.Status)
}

/*
TestService_List filters by project and status.
*/
func TestService_List(t *testing.T) {
	w := newWorld()
	ctx := context.Background()

	for _, title := range []string{"one", "two", "three"} {
		_, err := w.service.Create(ctx, w.bystander, CreateInput{ProjectID: w.project.ID, Title: title})
		require.NoError(t, err)
	}
	assigned := w.assignedIssue(t)
	_, err := w.service.Close(ctx, w.manager, assigned.ID)
	require.NoError(t, err)

	all, total, err := w.service.List(ctx, w.bystander, Filter{ProjectID: w.project.ID}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, assigned.ID, all[0].ID, "newest first")

	_, total, err = w.service.List(ctx, w.bystander, Filter{Status: StatusClosed}, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, _, err = w.service.List(ctx, w.bystander, Filter{ProjectID: uuid.New()}, pagination.Params{Page: 1, Limit: 10})
	assertCode(t, err, apperr.CodeNotFound)

	_, _, err = w.service.List(ctx, w.bystander, Filter{Status: "done"}, pagination.Params{Page: 1, Limit: 10})
	assertCode(t, err, apperr.CodeValidation)
}

/*
TestService_DeleteComment: the author and admins may delete, other developers may not.
*/
func TestService_DeleteComment(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	issue := w.assignedIssue(t)

	addComment := func() *Comment {
		comment, err := w.service.AddComment(ctx, w.assignee, issue.ID, CommentInput{Content: "Reproduced on staging"})
		require.NoError(t, err)
		return comment
	}

	tests := []struct {
		name  string
		actor func(w *world) *sec.Principal
		code  string
	}{
		{"author", func(w *world) *sec.Principal { return w.assignee }, ""},
		{"other_developer", func(w *world) *sec.Principal { return w.bystander }, apperr.CodeForbidden},
		{"manager", func(w *world) *sec.Principal { return w.manager }, apperr.CodeForbidden},
		{"admin", func(w *world) *sec.Principal { return w.admin }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comment := addComment()
			err := w.service.DeleteComment(ctx, tt.actor(w), issue.ID, comment.ID)
			if tt.code != "" {
				assertCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			_, err = w.comments.FindByID(ctx, comment.ID)
			assertCode(t, err, apperr.CodeNotFound)
		})
	}

	t.Run("wrong_issue", func(t *testing.T) {
		comment := addComment()
		other, err := w.service.Create(ctx, w.bystander, CreateInput{ProjectID: w.project.ID, Title: "Other"})
		require.NoError(t, err)

		err = w.service.DeleteComment(ctx, w.assignee, other.ID, comment.ID)
		assertCode(t, err, apperr.CodeNotFound)
	})
}

/*
TestService_Comments covers adding and listing.
*/
func TestService_Comments(t *testing.T) {
	w := newWorld()
	ctx := context.Background()
	issue := w.assignedIssue(t)

	comment, err := w.service.AddComment(ctx, w.bystander, issue.ID, CommentInput{Content: "  Seen it too  "})
	require.NoError(t, err)
	assert.Equal(t, "Seen it too", comment.Content)
	assert.Equal(t, w.bystander.ID, comment.AuthorID)

	_, err = w.service.AddComment(ctx, w.bystander, issue.ID, CommentInput{Content: "   "})
	assertCode(t, err, apperr.CodeValidation)

	_, err = w.service.AddComment(ctx, w.bystander, uuid.New(), CommentInput{Content: "hello"})
	assertCode(t, err, apperr.CodeNotFound)

	comments, total, err := w.service.ListComments(ctx, w.manager, issue.ID, pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, comment.ID, comments[0].ID)
}

/*
TestDate_JSON verifies the calendar-day wire format.
*/
func TestDate_JSON(t *testing.T) {
	due, err := ParseDate("2026-02-28")
	require.NoError(t, err)

	encoded, err := json.Marshal(Issue{DueDate: &due})
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"due_date":"2026-02-28"`)

	var decoded CreateInput
	assert.Error(t, json.Unmarshal([]byte(`{"due_date":"28/02/2026"}`), &decoded))
	_, err = ParseDate("2026-02-30")
	assert.Error(t, err)
}
