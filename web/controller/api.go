package controller

import (
	"bookshelf/web/service"
	"bookshelf/web/session"

	"github.com/gin-gonic/gin"
)

// APIController exposes a small session-authenticated JSON API over the
// catalog, mirroring the HTML pages.
type APIController struct {
	BaseController

	bookService service.BookService
}

// NewAPIController creates a new APIController and initializes its routes.
func NewAPIController(g *gin.RouterGroup) *APIController {
	a := &APIController{}
	a.initRouter(g)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/api")
	g.Use(a.checkLogin)

	g.GET("/books", a.books)
	g.GET("/books/search", a.search)
	g.GET("/books/mine", a.myBooks)
}

// books returns the whole catalog, newest first.
func (a *APIController) books(c *gin.Context) {
	books, err := a.bookService.GetAll()
	jsonObj(c, books, err)
}

// search matches by title or author substring, case-insensitive.
func (a *APIController) search(c *gin.Context) {
	if author := c.Query("author"); author != "" {
		books, err := a.bookService.SearchByAuthor(author)
		jsonObj(c, books, err)
		return
	}
	books, err := a.bookService.SearchByTitle(c.Query("title"))
	jsonObj(c, books, err)
}

// myBooks returns the caller's registrations.
func (a *APIController) myBooks(c *gin.Context) {
	books, err := a.bookService.GetByOwner(session.GetIdentity(c))
	jsonObj(c, books, err)
}
