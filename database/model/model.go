// Package model defines the persistent entities of the bookshelf catalog.
package model

import (
	"time"
)

// Role is a fixed authorization vocabulary entry (e.g. USER, ADMIN).
// Created once at startup, never mutated afterwards.
type Role struct {
	Id   int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"uniqueIndex;not null"`
}

// Member is a registered account. The password column always holds a bcrypt
// hash, never the clear form. Roles are assigned at registration and are not
// member-editable.
type Member struct {
	Id       int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Username string `json:"username" form:"username" gorm:"uniqueIndex;not null"`
	Password string `json:"-" form:"password"`
	Name     string `json:"name" form:"name"`
	Age      int    `json:"age" form:"age"`
	Email    string `json:"email" form:"email"`
	Roles    []Role `json:"roles" gorm:"many2many:member_roles;"`
}

// Book is a catalog entry owned by the member who registered it. The owner
// reference is one-way: a member does not enumerate its books.
type Book struct {
	Id             int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Title          string    `json:"title" form:"title" gorm:"not null"`
	Author         string    `json:"author" form:"author" gorm:"not null"`
	Price          int       `json:"price" form:"price" gorm:"not null"`
	Pages          int       `json:"pages" form:"pages" gorm:"not null"`
	Description    string    `json:"description" form:"description"`
	RegisteredById int       `json:"-"`
	RegisteredBy   Member    `json:"registeredBy" gorm:"foreignKey:RegisteredById"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// OwnedBy reports whether the book was registered by the given username.
// Callers must have loaded the live RegisteredBy association first.
func (b *Book) OwnedBy(username string) bool {
	return b.RegisteredBy.Username == username
}
