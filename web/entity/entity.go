// Package entity defines data structures used by the web layer of bookshelf.
package entity

import (
	"bookshelf/database/model"
)

// Msg represents a standard API response with success status, message text,
// and optional data object.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Obj     any    `json:"obj"`
}

const (
	// permissionPrefix turns a role name into a permission label.
	permissionPrefix = "ROLE_"

	// AdminPermission is the label granting administrative overrides.
	AdminPermission = permissionPrefix + "ADMIN"
)

// Principal is the authenticated identity derived from a member at login
// time. It lives for the session only and is never persisted. The member is
// carried by value for presentation; mutating it has no effect on the store.
type Principal struct {
	Identity    string       `json:"identity"`
	Permissions []string     `json:"permissions"`
	Member      model.Member `json:"member"`
}

// NewPrincipal adapts a resolved member into a session principal. Pure
// mapping: the identity is the username and every role name becomes a
// prefixed permission label. The member is not modified; the copy carried
// in the principal has its password hash blanked so it never reaches the
// session cookie.
func NewPrincipal(member *model.Member) Principal {
	permissions := make([]string, 0, len(member.Roles))
	for _, role := range member.Roles {
		permissions = append(permissions, permissionPrefix+role.Name)
	}
	carried := *member
	carried.Password = ""
	return Principal{
		Identity:    member.Username,
		Permissions: permissions,
		Member:      carried,
	}
}

// HasPermission reports whether the principal carries the given label.
func (p *Principal) HasPermission(label string) bool {
	for _, perm := range p.Permissions {
		if perm == label {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the principal may use admin-only operations.
func (p *Principal) IsAdmin() bool {
	return p.HasPermission(AdminPermission)
}
