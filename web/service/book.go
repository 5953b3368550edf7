package service

import (
	"fmt"
	"strings"

	"bookshelf/database"
	"bookshelf/database/model"
	"bookshelf/logger"
	"bookshelf/web/entity"

	"gorm.io/gorm"
)

// BookService enforces the catalog's ownership rules. Every mutation
// re-derives the acting member from the identity handed in by the session
// layer and re-reads the live book row inside one transaction, so a client
// payload can never spoof ownership.
type BookService struct {
	memberService MemberService
}

// Register stores a new book owned by the acting identity. The owner is
// always the resolved current member, regardless of anything in the payload.
func (s *BookService) Register(book *model.Book, identity string) (*model.Book, error) {
	if identity == "" {
		return nil, ErrUnauthenticated
	}

	member, err := s.memberService.GetByUsername(identity)
	if err != nil {
		return nil, err
	}

	db := database.GetDB()
	book.Id = 0
	book.RegisteredById = member.Id
	book.RegisteredBy = model.Member{}
	if err := db.Omit("RegisteredBy").Create(book).Error; err != nil {
		return nil, err
	}
	book.RegisteredBy = *member

	logger.Infof("book %d (%s) registered by %s", book.Id, book.Title, identity)
	return book, nil
}

// Update overwrites the mutable fields of a book. Only the owner may update;
// there is deliberately no admin override here, unlike Delete. Id, owner and
// CreatedAt are never touched, UpdatedAt is refreshed by the store. The
// read-check-write sequence runs in a single transaction.
func (s *BookService) Update(id int, patch *model.Book, identity string) (*model.Book, error) {
	if identity == "" {
		return nil, ErrUnauthenticated
	}

	db := database.GetDB()
	book := &model.Book{}
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(model.Book{}).
			Preload("RegisteredBy").
			First(book, id).
			Error
		if database.IsNotFound(err) {
			return fmt.Errorf("%w: id %d", ErrBookNotFound, id)
		} else if err != nil {
			return err
		}

		if !book.OwnedBy(identity) {
			return fmt.Errorf("%w: only the owner may modify a book", ErrForbidden)
		}

		book.Title = patch.Title
		book.Author = patch.Author
		book.Price = patch.Price
		book.Pages = patch.Pages
		book.Description = patch.Description
		return tx.Omit("RegisteredBy").Save(book).Error
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("book %d updated by %s", id, identity)
	return book, nil
}

// Delete removes a book. Permitted for the owner or for a principal holding
// the admin permission label. The check runs against the live row inside the
// deleting transaction.
func (s *BookService) Delete(id int, identity string, permissions []string) error {
	if identity == "" {
		return ErrUnauthenticated
	}

	isAdmin := false
	for _, perm := range permissions {
		if perm == entity.AdminPermission {
			isAdmin = true
			break
		}
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		book := &model.Book{}
		err := tx.Model(model.Book{}).
			Preload("RegisteredBy").
			First(book, id).
			Error
		if database.IsNotFound(err) {
			return fmt.Errorf("%w: id %d", ErrBookNotFound, id)
		} else if err != nil {
			return err
		}

		if !book.OwnedBy(identity) && !isAdmin {
			return fmt.Errorf("%w: no delete permission", ErrForbidden)
		}

		return tx.Delete(book).Error
	})
	if err != nil {
		return err
	}

	logger.Infof("book %d deleted by %s", id, identity)
	return nil
}

// GetAll returns the whole catalog, newest first, each book with its owner
// eagerly attached so rendering needs no second lookup per item.
func (s *BookService) GetAll() ([]*model.Book, error) {
	db := database.GetDB()

	var books []*model.Book
	err := db.Model(model.Book{}).
		Preload("RegisteredBy").
		Order("created_at DESC").
		Find(&books).
		Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// Get returns one book with its owner, ErrBookNotFound when absent.
func (s *BookService) Get(id int) (*model.Book, error) {
	db := database.GetDB()

	book := &model.Book{}
	err := db.Model(model.Book{}).
		Preload("RegisteredBy").
		First(book, id).
		Error
	if database.IsNotFound(err) {
		return nil, fmt.Errorf("%w: id %d", ErrBookNotFound, id)
	} else if err != nil {
		return nil, err
	}
	return book, nil
}

// SearchByTitle matches books whose title contains the fragment, case
// insensitively. Result order is unspecified.
func (s *BookService) SearchByTitle(fragment string) ([]*model.Book, error) {
	return s.searchByColumn("title", fragment)
}

// SearchByAuthor matches books whose author contains the fragment, case
// insensitively.
func (s *BookService) SearchByAuthor(fragment string) ([]*model.Book, error) {
	return s.searchByColumn("author", fragment)
}

func (s *BookService) searchByColumn(column string, fragment string) ([]*model.Book, error) {
	db := database.GetDB()

	var books []*model.Book
	pattern := "%" + strings.ToLower(fragment) + "%"
	err := db.Model(model.Book{}).
		Preload("RegisteredBy").
		Where("LOWER("+column+") LIKE ?", pattern).
		Find(&books).
		Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// GetByOwner returns every book registered by the given identity.
func (s *BookService) GetByOwner(identity string) ([]*model.Book, error) {
	db := database.GetDB()

	var books []*model.Book
	err := db.Model(model.Book{}).
		Preload("RegisteredBy").
		Joins("JOIN members ON members.id = books.registered_by_id").
		Where("members.username = ?", identity).
		Order("books.created_at DESC").
		Find(&books).
		Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// CountByOwner returns how many books a member has registered.
func (s *BookService) CountByOwner(memberId int) (int64, error) {
	db := database.GetDB()

	var count int64
	err := db.Model(model.Book{}).
		Where("registered_by_id = ?", memberId).
		Count(&count).
		Error
	return count, err
}
