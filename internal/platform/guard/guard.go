// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package guard decides whether a principal may perform an action on a resource.

Every permission rule of the API lives in one declarative table ([DefaultPolicy]).
Services load the target resource first (so a missing resource is reported as
NOT_FOUND), then call [Guard.Authorize] with the ownership facts they loaded.

Precedence:

 1. admin is always allowed;
 2. the rule's minimum role, or the rule's ownership relation, grants access;
 3. everything else, including unknown actions, is FORBIDDEN.
*/
package guard

import (
	"fmt"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

// # Actions

// Action names an operation on a resource kind ("issue.update").
type Action string

const (
	ProjectRead   Action = "project.read"
	ProjectCreate Action = "project.create"
	ProjectUpdate Action = "project.update"
	ProjectDelete Action = "project.delete"

	IssueRead   Action = "issue.read"
	IssueCreate Action = "issue.create"
	IssueUpdate Action = "issue.update"
	IssueAssign Action = "issue.assign"
	IssueClose  Action = "issue.close"

	CommentRead   Action = "comment.read"
	CommentCreate Action = "comment.create"
	CommentDelete Action = "comment.delete"

	UserChangeRole Action = "user.change_role"
)

// # Resources

// Relation names an ownership field of a [Resource].
type Relation int

const (
	// RelationNone means the rule grants nothing by ownership.
	RelationNone Relation = iota
	// RelationOwner matches Resource.OwnerID (comment author, issue reporter, project creator).
	RelationOwner
	// RelationAssignee matches Resource.AssigneeID.
	RelationAssignee
)

// Resource carries the ownership facts the guard needs. Zero values mean "no such relation".
type Resource struct {
	Kind       string
	ID         string
	OwnerID    string
	AssigneeID string
}

// holds reports whether principalID stands in relation to the resource.
func (resource Resource) holds(relation Relation, principalID string) bool {
	if principalID == "" {
		return false
	}
	switch relation {
	case RelationOwner:
		return resource.OwnerID == principalID
	case RelationAssignee:
		return resource.AssigneeID == principalID
	default:
		return false
	}
}

// # Policy

// Rule grants an action to every role at or above MinRole, and to the holder of Relation.
// An empty MinRole grants by role to nobody (admin aside).
type Rule struct {
	MinRole  sec.Role
	Relation Relation
}

// Policy maps actions to their rule.
type Policy map[Action]Rule

// DefaultPolicy is the permission table of the tracker.
var DefaultPolicy = Policy{
	ProjectRead:   {MinRole: sec.RoleDeveloper},
	IssueRead:     {MinRole: sec.RoleDeveloper},
	CommentRead:   {MinRole: sec.RoleDeveloper},
	IssueCreate:   {MinRole: sec.RoleDeveloper},
	CommentCreate: {MinRole: sec.RoleDeveloper},

	ProjectCreate: {MinRole: sec.RoleManager},
	ProjectUpdate: {MinRole: sec.RoleManager},
	IssueAssign:   {MinRole: sec.RoleManager},
	IssueClose:    {MinRole: sec.RoleManager},

	ProjectDelete:  {MinRole: sec.RoleAdmin},
	UserChangeRole: {MinRole: sec.RoleAdmin},

	IssueUpdate:   {MinRole: sec.RoleManager, Relation: RelationAssignee},
	CommentDelete: {Relation: RelationOwner},
}

// # Guard

// Guard evaluates a [Policy]. The zero value denies everything but admin.
type Guard struct {
	policy Policy
}

// New creates a Guard over policy. The map is copied.
func New(policy Policy) *Guard {
	copied := make(Policy, len(policy))
	for action, rule := range policy {
		copied[action] = rule
	}
	return &Guard{policy: copied}
}

// Default creates a Guard over [DefaultPolicy].
func Default() *Guard {
	return New(DefaultPolicy)
}

/*
Authorize reports whether principal may perform action on resource.

Parameters:
  - principal: The authenticated caller (nil is denied)
  - resource: Ownership facts of the already-loaded target
  - action: The operation being attempted

Returns:
  - error: nil when allowed, apperr FORBIDDEN otherwise
*/
func (guard *Guard) Authorize(principal *sec.Principal, resource Resource, action Action) error {
	if principal == nil || !principal.Role.Valid() {
		return apperr.Forbidden("Insufficient permissions")
	}

	// 1. Admin override
	if principal.IsAdmin() {
		return nil
	}

	// 2. Rule lookup: unknown actions are denied
	rule, found := guard.policy[action]
	if !found {
		return forbidden(action)
	}

	// 3. Role grant
	if rule.MinRole != "" && principal.Role.AtLeast(rule.MinRole) {
		return nil
	}

	// 4. Ownership grant
	if rule.Relation != RelationNone && resource.holds(rule.Relation, principal.ID) {
		return nil
	}

	return forbidden(action)
}

// Allowed is Authorize as a boolean.
func (guard *Guard) Allowed(principal *sec.Principal, resource Resource, action Action) bool {
	return guard.Authorize(principal, resource, action) == nil
}

func forbidden(action Action) error {
	return apperr.Forbidden(fmt.Sprintf("Not allowed to %s", action))
}
