// Copyright (c) 2026 Bugtrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/bugtrack/internal/platform/sec"
)

/*
TestRole_AtLeast tests the role hierarchy comparisons.
*/
func TestRole_AtLeast(t *testing.T) {
	tests := []struct {
		name   string
		role   sec.Role
		target sec.Role
		want   bool
	}{
		{"admin_over_manager", sec.RoleAdmin, sec.RoleManager, true},
		{"manager_over_developer", sec.RoleManager, sec.RoleDeveloper, true},
		{"developer_not_manager", sec.RoleDeveloper, sec.RoleManager, false},
		{"manager_not_admin", sec.RoleManager, sec.RoleAdmin, false},
		{"same_role", sec.RoleDeveloper, sec.RoleDeveloper, true},
		{"unknown_role", sec.Role("guest"), sec.RoleDeveloper, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}
}

/*
TestRole_Valid rejects anything outside the three known roles.
*/
func TestRole_Valid(t *testing.T) {
	for _, role := range sec.Roles {
		assert.True(t, role.Valid(), role)
	}
	assert.False(t, sec.Role("").Valid())
	assert.False(t, sec.Role("member").Valid())
}
