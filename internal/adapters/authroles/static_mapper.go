// Package authroles maps identity provider groups to application roles.
package authroles

import (
	domainauth "github.com/neurozen/neurozen/internal/domain/auth"
)

// StaticRoleMapper maps groups by simple string membership rules. SSO users
// outside both groups land as guests and cannot reach user pages.
type StaticRoleMapper struct {
	AdminGroup string
	UserGroup  string
}

// Map returns the highest role granted by the group memberships.
func (m StaticRoleMapper) Map(groups []string) domainauth.Role {
	for _, g := range groups {
		if m.AdminGroup != "" && g == m.AdminGroup {
			return domainauth.RoleAdmin
		}
	}
	for _, g := range groups {
		if m.UserGroup != "" && g == m.UserGroup {
			return domainauth.RoleUser
		}
	}
	return domainauth.RoleGuest
}
