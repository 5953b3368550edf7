package service

import (
	"errors"
	"os"
	"testing"
	"time"

	"bookshelf/database"
	"bookshelf/database/model"
	"bookshelf/web/entity"

	"github.com/stretchr/testify/assert"
)

const testDBPath = "test.db"

func setup(t *testing.T) {
	t.Helper()
	for _, f := range []string{testDBPath, testDBPath + "-wal", testDBPath + "-shm"} {
		os.Remove(f)
	}
	if err := database.InitDB(testDBPath); err != nil {
		t.Fatalf("init test db: %v", err)
	}
}

func teardown() {
	if sqlDB, err := database.GetDB().DB(); err == nil {
		sqlDB.Close()
	}
	for _, f := range []string{testDBPath, testDBPath + "-wal", testDBPath + "-shm"} {
		os.Remove(f)
	}
}

func registerMember(t *testing.T, username string) *model.Member {
	t.Helper()
	memberService := MemberService{}
	member, err := memberService.Register(&model.Member{
		Username: username,
		Password: username + "-pw",
		Name:     username,
		Email:    username + "@test.com",
	})
	if err != nil {
		t.Fatalf("register member %s: %v", username, err)
	}
	return member
}

func TestBookOwnershipScenario(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	registerMember(t, "alice")
	registerMember(t, "bob")

	// alice registers a book
	book, err := bookService.Register(&model.Book{
		Title:  "A",
		Author: "someone",
		Price:  1000,
		Pages:  10,
	}, "alice")
	assert.NoError(t, err)
	assert.NotZero(t, book.Id)
	assert.Equal(t, "alice", book.RegisteredBy.Username)

	createdAt := book.CreatedAt
	ownerId := book.RegisteredById

	// update attempted as bob fails and leaves the book unchanged
	_, err = bookService.Update(book.Id, &model.Book{
		Title:  "hijacked",
		Author: "someone",
		Price:  1,
		Pages:  1,
	}, "bob")
	assert.ErrorIs(t, err, ErrForbidden)

	reread, err := bookService.Get(book.Id)
	assert.NoError(t, err)
	assert.Equal(t, "A", reread.Title)
	assert.Equal(t, 1000, reread.Price)

	// update as the owner changes only the mutable fields
	updated, err := bookService.Update(book.Id, &model.Book{
		Title:  "A2",
		Author: "someone",
		Price:  1000,
		Pages:  10,
	}, "alice")
	assert.NoError(t, err)
	assert.Equal(t, "A2", updated.Title)
	assert.Equal(t, book.Id, updated.Id)
	assert.Equal(t, ownerId, updated.RegisteredById)
	assert.Equal(t, createdAt.Unix(), updated.CreatedAt.Unix())

	// delete as bob without admin permission fails, book still there
	err = bookService.Delete(book.Id, "bob", []string{"ROLE_USER"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = bookService.Get(book.Id)
	assert.NoError(t, err)

	// admin may delete someone else's book
	err = bookService.Delete(book.Id, "admin", []string{"ROLE_USER", "ROLE_ADMIN"})
	assert.NoError(t, err)

	_, err = bookService.Get(book.Id)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookUpdateHasNoAdminOverride(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	registerMember(t, "alice")

	book, err := bookService.Register(&model.Book{
		Title:  "owned",
		Author: "a",
		Price:  500,
		Pages:  50,
	}, "alice")
	assert.NoError(t, err)

	// the seeded admin owns no claim on alice's book; update stays owner-only
	_, err = bookService.Update(book.Id, &model.Book{
		Title:  "admin-edit",
		Author: "a",
		Price:  500,
		Pages:  50,
	}, "admin")
	assert.ErrorIs(t, err, ErrForbidden)

	reread, err := bookService.Get(book.Id)
	assert.NoError(t, err)
	assert.Equal(t, "owned", reread.Title)
}

func TestBookRegisterRequiresIdentity(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}

	_, err := bookService.Register(&model.Book{Title: "x", Author: "y", Price: 1, Pages: 1}, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = bookService.Register(&model.Book{Title: "x", Author: "y", Price: 1, Pages: 1}, "nobody")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestBookUpdateAndDeleteRequireIdentity(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	alice := registerMember(t, "alice")

	book, err := bookService.Register(&model.Book{Title: "x", Author: "y", Price: 1, Pages: 1}, alice.Username)
	assert.NoError(t, err)

	_, err = bookService.Update(book.Id, &model.Book{Title: "changed"}, "")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	err = bookService.Delete(book.Id, "", []string{entity.AdminPermission})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Nothing was touched.
	kept, err := bookService.Get(book.Id)
	assert.NoError(t, err)
	assert.Equal(t, "x", kept.Title)
}

func TestBookRegisterIgnoresClientSuppliedOwner(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	alice := registerMember(t, "alice")
	bob := registerMember(t, "bob")

	// a payload claiming bob as owner is overridden by the acting identity
	book, err := bookService.Register(&model.Book{
		Title:          "spoofed",
		Author:         "a",
		Price:          1,
		Pages:          1,
		RegisteredById: bob.Id,
		RegisteredBy:   *bob,
	}, "alice")
	assert.NoError(t, err)
	assert.Equal(t, alice.Id, book.RegisteredById)

	reread, err := bookService.Get(book.Id)
	assert.NoError(t, err)
	assert.Equal(t, "alice", reread.RegisteredBy.Username)
}

func TestBookNotFound(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	registerMember(t, "alice")

	_, err := bookService.Get(99999)
	assert.ErrorIs(t, err, ErrBookNotFound)

	_, err = bookService.Update(99999, &model.Book{Title: "x"}, "alice")
	assert.ErrorIs(t, err, ErrBookNotFound)

	err = bookService.Delete(99999, "alice", nil)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestSearchByTitle(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	registerMember(t, "alice")

	_, err := bookService.Register(&model.Book{Title: "Java Basics", Author: "a", Price: 1, Pages: 1}, "alice")
	assert.NoError(t, err)
	_, err = bookService.Register(&model.Book{Title: "Python Basics", Author: "a", Price: 1, Pages: 1}, "alice")
	assert.NoError(t, err)

	books, err := bookService.SearchByTitle("java")
	assert.NoError(t, err)
	assert.Len(t, books, 2) // seeded "The Essence of Java" matches too

	titles := make([]string, 0, len(books))
	for _, b := range books {
		titles = append(titles, b.Title)
	}
	assert.Contains(t, titles, "Java Basics")
	assert.NotContains(t, titles, "Python Basics")

	books, err = bookService.SearchByTitle("BASICS")
	assert.NoError(t, err)
	assert.Len(t, books, 2)
}

func TestGetAllNewestFirstWithOwners(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	registerMember(t, "alice")

	time.Sleep(10 * time.Millisecond)
	first, err := bookService.Register(&model.Book{Title: "first", Author: "a", Price: 1, Pages: 1}, "alice")
	assert.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	second, err := bookService.Register(&model.Book{Title: "second", Author: "a", Price: 1, Pages: 1}, "alice")
	assert.NoError(t, err)

	books, err := bookService.GetAll()
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(books), 2)

	assert.Equal(t, second.Id, books[0].Id)
	assert.Equal(t, first.Id, books[1].Id)
	for _, b := range books {
		assert.NotEmpty(t, b.RegisteredBy.Username)
	}
}

func TestGetByOwner(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	registerMember(t, "alice")
	registerMember(t, "bob")

	_, err := bookService.Register(&model.Book{Title: "mine", Author: "a", Price: 1, Pages: 1}, "alice")
	assert.NoError(t, err)
	_, err = bookService.Register(&model.Book{Title: "his", Author: "a", Price: 1, Pages: 1}, "bob")
	assert.NoError(t, err)

	books, err := bookService.GetByOwner("alice")
	assert.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, "mine", books[0].Title)

	books, err = bookService.GetByOwner("nobody")
	assert.NoError(t, err)
	assert.Empty(t, books)
}

func TestCountByOwner(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	alice := registerMember(t, "alice")

	for _, title := range []string{"one", "two", "three"} {
		_, err := bookService.Register(&model.Book{Title: title, Author: "a", Price: 1, Pages: 1}, "alice")
		assert.NoError(t, err)
	}

	count, err := bookService.CountByOwner(alice.Id)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestDeleteErrorsAreDistinguishable(t *testing.T) {
	setup(t)
	defer teardown()

	bookService := BookService{}
	registerMember(t, "alice")
	registerMember(t, "bob")

	book, err := bookService.Register(&model.Book{Title: "x", Author: "a", Price: 1, Pages: 1}, "alice")
	assert.NoError(t, err)

	err = bookService.Delete(book.Id, "bob", nil)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.False(t, errors.Is(err, ErrBookNotFound))

	err = bookService.Delete(book.Id+1000, "bob", []string{entity.AdminPermission})
	assert.ErrorIs(t, err, ErrBookNotFound)
	assert.False(t, errors.Is(err, ErrForbidden))
}
