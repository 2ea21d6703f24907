// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package issue manages issues and their comments.

# Permissions

  - Anyone authenticated reads, files issues and comments.
  - Updating an issue takes a manager or the current assignee.
  - Assigning and closing take a manager.
  - A comment can be deleted by its author (or an admin).

A missing target is reported as NOT_FOUND before any permission check.
*/
package issue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/taibuivan/bugtrack/pkg/optional"
)

// # Enumerations

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusClosed     Status = "closed"
	StatusReopened   Status = "reopened"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed, StatusReopened:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// # Dates

// dateLayout is the wire format of due dates.
const dateLayout = time.DateOnly

// Date is a calendar day serialized as "2006-01-02".
type Date struct {
	time.Time
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(value string) (Date, error) {
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return Date{}, fmt.Errorf("issue: invalid date %q: %w", value, err)
	}
	return Date{Time: parsed}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// # Domain Entities

// Issue is a tracked unit of work inside a project.
type Issue struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	ReporterID  string    `json:"reporter_id"`
	AssigneeID  *string   `json:"assignee_id"`
	DueDate     *Date     `json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// assignee returns the assignee id or "".
func (issue *Issue) assignee() string {
	if issue.AssigneeID == nil {
		return ""
	}
	return *issue.AssigneeID
}

// Filter narrows an issue listing.
type Filter struct {
	ProjectID  string
	Status     Status
	AssigneeID string
}

// CreateInput carries the fields of a new issue.
type CreateInput struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	DueDate     *Date    `json:"due_date"`
}

// UpdateInput carries a partial update. Absent fields are left untouched;
// due_date may be cleared with null.
type UpdateInput struct {
	Title       optional.Field[string]   `json:"title"`
	Description optional.Field[string]   `json:"description"`
	Status      optional.Field[Status]   `json:"status"`
	Priority    optional.Field[Priority] `json:"priority"`
	DueDate     optional.Field[Date]     `json:"due_date"`
}

// Apply merges the input into issue.
func (input UpdateInput) Apply(issue *Issue) {
	input.Title.Apply(&issue.Title)
	input.Description.Apply(&issue.Description)
	input.Status.Apply(&issue.Status)
	input.Priority.Apply(&issue.Priority)
	input.DueDate.ApplyPtr(&issue.DueDate)
}

// Field names for validation
const (
	FieldProjectID   = "project_id"
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldDueDate     = "due_date"
	FieldContent     = "content"
)

const (
	// MaxTitleLength matches core.issue.title.
	MaxTitleLength = 200
	// MaxContentLength bounds comment bodies.
	MaxContentLength = 10000

	issueKind   = "issue"
	commentKind = "comment"
)
