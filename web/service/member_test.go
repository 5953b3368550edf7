package service

import (
	"testing"

	"bookshelf/database"
	"bookshelf/database/model"
	"bookshelf/util/crypto"

	"github.com/stretchr/testify/assert"
)

func TestRegisterNeverStoresClearPassword(t *testing.T) {
	setup(t)
	defer teardown()

	memberService := MemberService{}
	member, err := memberService.Register(&model.Member{
		Username: "carol",
		Password: "secret",
		Name:     "Carol",
		Age:      30,
		Email:    "carol@test.com",
	})
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", member.Password)
	assert.True(t, crypto.CheckPasswordHash(member.Password, "secret"))
	assert.False(t, crypto.CheckPasswordHash(member.Password, "wrong"))

	// stored row carries the hash as well
	stored, err := memberService.GetByUsername("carol")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret", stored.Password)
}

func TestRegisterAssignsDefaultUserRole(t *testing.T) {
	setup(t)
	defer teardown()

	memberService := MemberService{}
	_, err := memberService.Register(&model.Member{
		Username: "carol",
		Password: "secret",
	})
	assert.NoError(t, err)

	stored, err := memberService.GetByUsername("carol")
	assert.NoError(t, err)
	assert.Len(t, stored.Roles, 1)
	assert.Equal(t, database.RoleUser, stored.Roles[0].Name)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	setup(t)
	defer teardown()

	memberService := MemberService{}
	_, err := memberService.Register(&model.Member{Username: "carol", Password: "one"})
	assert.NoError(t, err)

	_, err = memberService.Register(&model.Member{Username: "carol", Password: "two"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestRegisterRejectsEmptyFields(t *testing.T) {
	setup(t)
	defer teardown()

	memberService := MemberService{}

	_, err := memberService.Register(&model.Member{Username: "", Password: "pw"})
	assert.Error(t, err)

	_, err = memberService.Register(&model.Member{Username: "carol", Password: ""})
	assert.Error(t, err)
}

func TestGetByUsernameNotFound(t *testing.T) {
	setup(t)
	defer teardown()

	memberService := MemberService{}
	_, err := memberService.GetByUsername("nobody")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestCheckMember(t *testing.T) {
	setup(t)
	defer teardown()

	memberService := MemberService{}
	_, err := memberService.Register(&model.Member{Username: "carol", Password: "secret"})
	assert.NoError(t, err)

	member := memberService.CheckMember("carol", "secret")
	assert.NotNil(t, member)
	assert.Equal(t, "carol", member.Username)

	assert.Nil(t, memberService.CheckMember("carol", "wrong"))
	assert.Nil(t, memberService.CheckMember("nobody", "secret"))
}

func TestSeededAccounts(t *testing.T) {
	setup(t)
	defer teardown()

	memberService := MemberService{}

	admin, err := memberService.GetByUsername("admin")
	assert.NoError(t, err)

	names := make([]string, 0, len(admin.Roles))
	for _, r := range admin.Roles {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, database.RoleAdmin)
	assert.Contains(t, names, database.RoleUser)

	assert.NotNil(t, memberService.CheckMember("user", "user123"))
	assert.NotNil(t, memberService.CheckMember("admin", "admin123"))
}
