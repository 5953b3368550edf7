// Package service provides the business logic of the bookshelf catalog:
// member registration and lookup, login verification, and the
// ownership-guarded book operations.
package service

import (
	"fmt"

	"bookshelf/database"
	"bookshelf/database/model"
	"bookshelf/logger"
	"bookshelf/util/common"
	"bookshelf/util/crypto"

	"gorm.io/gorm"
)

// MemberService manages member accounts and resolves identities to members.
type MemberService struct {
	roleService RoleService
}

// GetByUsername resolves a username to its member, roles attached. Returns
// ErrMemberNotFound when no such member exists. Used at login time and by
// every book mutation that re-derives the acting member.
func (s *MemberService) GetByUsername(username string) (*model.Member, error) {
	db := database.GetDB()

	member := &model.Member{}
	err := db.Model(model.Member{}).
		Preload("Roles").
		Where("username = ?", username).
		First(member).
		Error
	if database.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrMemberNotFound, username)
	} else if err != nil {
		return nil, err
	}
	return member, nil
}

// CheckMember verifies a login attempt, returning the member on success and
// nil on any failure. The clear password is compared against the stored
// bcrypt hash only.
func (s *MemberService) CheckMember(username string, password string) *model.Member {
	member, err := s.GetByUsername(username)
	if err != nil {
		return nil
	}
	if !crypto.CheckPasswordHash(member.Password, password) {
		return nil
	}
	return member
}

// Register creates a member from a registration form. The clear password in
// member.Password is replaced with its bcrypt hash before anything is
// persisted, and exactly the default USER role is attached. A duplicate
// username fails with ErrUsernameTaken; a missing USER role row is a
// deployment invariant violation and surfaces as a plain error.
func (s *MemberService) Register(member *model.Member) (*model.Member, error) {
	if member.Username == "" {
		return nil, common.NewError("username can not be empty")
	}
	if member.Password == "" {
		return nil, common.NewError("password can not be empty")
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(member.Password)
	if err != nil {
		return nil, err
	}

	userRole, err := s.roleService.GetByName(database.RoleUser)
	if err != nil {
		logger.Error("default USER role missing, seeding did not run:", err)
		return nil, common.NewErrorf("default role %s is not provisioned", database.RoleUser)
	}

	db := database.GetDB()
	err = db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(model.Member{}).
			Where("username = ?", member.Username).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %s", ErrUsernameTaken, member.Username)
		}

		member.Password = hashedPassword
		member.Roles = []model.Role{*userRole}
		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("member %s registered", member.Username)
	return member, nil
}

// GetAll returns every member with roles attached, for the admin page.
func (s *MemberService) GetAll() ([]*model.Member, error) {
	db := database.GetDB()

	var members []*model.Member
	err := db.Model(model.Member{}).
		Preload("Roles").
		Order("id ASC").
		Find(&members).
		Error
	if err != nil {
		return nil, err
	}
	return members, nil
}
