// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package issue

import (
	"context"
	"sort"
	"sync"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/tracker/project"
	"github.com/taibuivan/bugtrack/internal/users/auth"
)

type memoryIssues struct {
	mu     sync.Mutex
	issues map[string]Issue
	order  []string
}

func newMemoryIssues() *memoryIssues {
	return &memoryIssues{issues: map[string]Issue{}}
}

func (repository *memoryIssues) List(_ context.Context, filter Filter, limit, offset int) ([]*Issue, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := []*Issue{}
	for i := len(repository.order) - 1; i >= 0; i-- {
		issue := repository.issues[repository.order[i]]
		if filter.ProjectID != "" && issue.ProjectID != filter.ProjectID {
			continue
		}
		if filter.Status != "" && issue.Status != filter.Status {
			continue
		}
		if filter.AssigneeID != "" && issue.assignee() != filter.AssigneeID {
			continue
		}
		found := issue
		matched = append(matched, &found)
	}

	total := len(matched)
	if offset >= total {
		return []*Issue{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *memoryIssues) FindByID(_ context.Context, id string) (*Issue, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	issue, ok := repository.issues[id]
	if !ok {
		return nil, apperr.NotFound("Issue")
	}
	return &issue, nil
}

func (repository *memoryIssues) Create(_ context.Context, issue *Issue) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.issues[issue.ID] = *issue
	repository.order = append(repository.order, issue.ID)
	return nil
}

func (repository *memoryIssues) Update(_ context.Context, issue *Issue) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.issues[issue.ID]; !ok {
		return apperr.NotFound("Issue")
	}
	repository.issues[issue.ID] = *issue
	return nil
}

type memoryComments struct {
	mu       sync.Mutex
	comments map[string]Comment
}

func newMemoryComments() *memoryComments {
	return &memoryComments{comments: map[string]Comment{}}
}

func (repository *memoryComments) ListByIssue(_ context.Context, issueID string, limit, offset int) ([]*Comment, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matched := []*Comment{}
	for _, comment := range repository.comments {
		if comment.IssueID == issueID {
			found := comment
			matched = append(matched, &found)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if offset >= total {
		return []*Comment{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (repository *memoryComments) FindByID(_ context.Context, id string) (*Comment, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	comment, ok := repository.comments[id]
	if !ok {
		return nil, apperr.NotFound("Comment")
	}
	return &comment, nil
}

func (repository *memoryComments) Create(_ context.Context, comment *Comment) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.comments[comment.ID] = *comment
	return nil
}

func (repository *memoryComments) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	if _, ok := repository.comments[id]; !ok {
		return apperr.NotFound("Comment")
	}
	delete(repository.comments, id)
	return nil
}

type stubProjects map[string]*project.Project

func (projects stubProjects) Find(_ context.Context, id string) (*project.Project, error) {
	found, ok := projects[id]
	if !ok {
		return nil, apperr.NotFound("Project")
	}
	return found, nil
}

type stubUsers map[string]*auth.User

func (users stubUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	found, ok := users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	return found, nil
}
