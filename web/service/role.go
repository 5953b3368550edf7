package service

import (
	"bookshelf/database"
	"bookshelf/database/model"
)

// RoleService reads the fixed role vocabulary seeded at startup.
type RoleService struct{}

// GetByName returns the role with the given name. The vocabulary is created
// by database seeding, so a miss here is a deployment problem rather than a
// normal runtime condition.
func (s *RoleService) GetByName(name string) (*model.Role, error) {
	db := database.GetDB()

	role := &model.Role{}
	err := db.Model(model.Role{}).
		Where("name = ?", name).
		First(role).
		Error
	if err != nil {
		return nil, err
	}
	return role, nil
}

// GetAll returns every role.
func (s *RoleService) GetAll() ([]*model.Role, error) {
	db := database.GetDB()

	var roles []*model.Role
	err := db.Model(model.Role{}).Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
