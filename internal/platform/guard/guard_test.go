// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bugtrack/internal/platform/apperr"
	"github.com/taibuivan/bugtrack/internal/platform/guard"
	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

var (
	admin     = &sec.Principal{ID: "admin-1", Role: sec.RoleAdmin}
	manager   = &sec.Principal{ID: "manager-1", Role: sec.RoleManager}
	developer = &sec.Principal{ID: "dev-1", Role: sec.RoleDeveloper}
	other     = &sec.Principal{ID: "dev-2", Role: sec.RoleDeveloper}
)

/*
TestAuthorize_IssueUpdate verifies the assignee / non-assignee / admin scenario.
*/
func TestAuthorize_IssueUpdate(t *testing.T) {
	gate := guard.Default()
	issue := guard.Resource{Kind: "issue", ID: "i-1", OwnerID: other.ID, AssigneeID: developer.ID}

	tests := []struct {
		name      string
		principal *sec.Principal
		allowed   bool
	}{
		{"assignee_developer", developer, true},
		{"reporter_is_not_enough", other, false},
		{"manager", manager, true},
		{"admin", admin, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(tt.principal, issue, guard.IssueUpdate)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.True(t, apperr.HasCode(err, apperr.CodeForbidden), "got %v", err)
			}
		})
	}

	unassigned := guard.Resource{Kind: "issue", ID: "i-2"}
	assert.False(t, gate.Allowed(developer, unassigned, guard.IssueUpdate))
}

/*
TestAuthorize_CommentDelete verifies the author / other developer / admin scenario.
*/
func TestAuthorize_CommentDelete(t *testing.T) {
	gate := guard.Default()
	comment := guard.Resource{Kind: "comment", ID: "c-1", OwnerID: developer.ID}

	assert.NoError(t, gate.Authorize(developer, comment, guard.CommentDelete))
	assert.Error(t, gate.Authorize(other, comment, guard.CommentDelete))
	assert.Error(t, gate.Authorize(manager, comment, guard.CommentDelete), "managers do not moderate comments")
	assert.NoError(t, gate.Authorize(admin, comment, guard.CommentDelete))
}

/*
TestAuthorize_Table walks the role-only rows of the default policy.
*/
func TestAuthorize_Table(t *testing.T) {
	gate := guard.Default()
	resource := guard.Resource{}

	tests := []struct {
		action    guard.Action
		developer bool
		manager   bool
	}{
		{guard.ProjectRead, true, true},
		{guard.IssueRead, true, true},
		{guard.CommentRead, true, true},
		{guard.IssueCreate, true, true},
		{guard.CommentCreate, true, true},
		{guard.ProjectCreate, false, true},
		{guard.ProjectUpdate, false, true},
		{guard.IssueAssign, false, true},
		{guard.IssueClose, false, true},
		{guard.ProjectDelete, false, false},
		{guard.UserChangeRole, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			assert.Equal(t, tt.developer, gate.Allowed(developer, resource, tt.action))
			assert.Equal(t, tt.manager, gate.Allowed(manager, resource, tt.action))
			assert.True(t, gate.Allowed(admin, resource, tt.action))
		})
	}
}

/*
TestAuthorize_Denials covers unknown actions, anonymous callers and forged roles.
*/
func TestAuthorize_Denials(t *testing.T) {
	gate := guard.Default()

	assert.Error(t, gate.Authorize(manager, guard.Resource{}, guard.Action("issue.purge")))
	assert.Error(t, gate.Authorize(nil, guard.Resource{}, guard.IssueRead))
	assert.Error(t, gate.Authorize(&sec.Principal{ID: "x", Role: sec.Role("root")}, guard.Resource{}, guard.IssueRead))

	// Ownership never matches an empty principal id.
	assert.Error(t, gate.Authorize(&sec.Principal{Role: sec.RoleDeveloper}, guard.Resource{}, guard.CommentDelete))
}

/*
TestNew_CopiesPolicy verifies later edits to the source map do not leak in.
*/
func TestNew_CopiesPolicy(t *testing.T) {
	policy := guard.Policy{guard.IssueRead: {MinRole: sec.RoleDeveloper}}
	gate := guard.New(policy)
	policy[guard.IssueRead] = guard.Rule{MinRole: sec.RoleAdmin}

	assert.True(t, gate.Allowed(developer, guard.Resource{}, guard.IssueRead))
}
