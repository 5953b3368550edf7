package entity

import (
	"testing"

	"bookshelf/database/model"
)

func TestNewPrincipal(t *testing.T) {
	tests := []struct {
		name      string
		roles     []model.Role
		wantPerms []string
		wantAdmin bool
	}{
		{
			name:      "single user role",
			roles:     []model.Role{{Id: 1, Name: "USER"}},
			wantPerms: []string{"ROLE_USER"},
			wantAdmin: false,
		},
		{
			name:      "user and admin",
			roles:     []model.Role{{Id: 1, Name: "USER"}, {Id: 2, Name: "ADMIN"}},
			wantPerms: []string{"ROLE_USER", "ROLE_ADMIN"},
			wantAdmin: true,
		},
		{
			name:      "no roles",
			roles:     nil,
			wantPerms: []string{},
			wantAdmin: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			member := &model.Member{
				Id:       7,
				Username: "alice",
				Password: "$2a$10$hash",
				Roles:    tt.roles,
			}

			principal := NewPrincipal(member)

			if principal.Identity != "alice" {
				t.Errorf("Identity = %q, expected %q", principal.Identity, "alice")
			}
			if len(principal.Permissions) != len(tt.wantPerms) {
				t.Fatalf("Permissions = %v, expected %v", principal.Permissions, tt.wantPerms)
			}
			for i, perm := range tt.wantPerms {
				if principal.Permissions[i] != perm {
					t.Errorf("Permissions[%d] = %q, expected %q", i, principal.Permissions[i], perm)
				}
			}
			if principal.IsAdmin() != tt.wantAdmin {
				t.Errorf("IsAdmin() = %v, expected %v", principal.IsAdmin(), tt.wantAdmin)
			}
			if principal.Member.Username != member.Username {
				t.Errorf("Member not carried: %q", principal.Member.Username)
			}
			if principal.Member.Password != "" {
				t.Errorf("password hash carried into principal: %q", principal.Member.Password)
			}
			if member.Password == "" {
				t.Error("source member password blanked")
			}
		})
	}
}

func TestNewPrincipalDoesNotMutateMember(t *testing.T) {
	member := &model.Member{
		Id:       1,
		Username: "alice",
		Roles:    []model.Role{{Id: 1, Name: "USER"}},
	}

	principal := NewPrincipal(member)
	principal.Member.Username = "changed"
	principal.Permissions[0] = "ROLE_CHANGED"

	if member.Username != "alice" {
		t.Errorf("member username mutated: %q", member.Username)
	}
	if member.Roles[0].Name != "USER" {
		t.Errorf("member role mutated: %q", member.Roles[0].Name)
	}
}

func TestHasPermission(t *testing.T) {
	principal := Principal{
		Identity:    "bob",
		Permissions: []string{"ROLE_USER"},
	}

	if !principal.HasPermission("ROLE_USER") {
		t.Error("expected ROLE_USER to be present")
	}
	if principal.HasPermission(AdminPermission) {
		t.Error("did not expect ROLE_ADMIN")
	}
	if principal.HasPermission("USER") {
		t.Error("unprefixed role name must not match")
	}
}
