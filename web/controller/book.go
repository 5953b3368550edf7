package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookshelf/database/model"
	"bookshelf/logger"
	"bookshelf/web/service"
	"bookshelf/web/session"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

// BookForm carries the user-editable fields of a book. The owner is never
// part of the form; it is always derived from the session.
type BookForm struct {
	Title       string `json:"title" form:"title"`
	Author      string `json:"author" form:"author"`
	Price       int    `json:"price" form:"price"`
	Pages       int    `json:"pages" form:"pages"`
	Description string `json:"description" form:"description"`
}

// BookController handles the authenticated book pages: registration,
// detail, edit, delete, own-books and search.
type BookController struct {
	BaseController

	bookService service.BookService
}

// NewBookController creates a new BookController and initializes its routes.
func NewBookController(g *gin.RouterGroup) *BookController {
	a := &BookController{}
	a.initRouter(g)
	return a
}

func (a *BookController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/book")
	g.Use(a.checkLogin)

	g.GET("/register", a.registerForm)
	g.POST("/register", a.register)
	g.GET("/detail/:id", a.detail)
	g.GET("/edit/:id", a.editForm)
	g.POST("/edit/:id", a.edit)
	g.POST("/delete/:id", a.delete)
	g.GET("/mybooks", a.myBooks)
	g.GET("/search", a.search)
	g.GET("/qrcode/:id", a.qrcode)
}

// redirectListWithError classifies a service error into a flash message and
// sends the caller back to the catalog.
func (a *BookController) redirectListWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		flashError(c, I18nWeb(c, "pages.books.toasts.notFound"))
	case errors.Is(err, service.ErrUnauthenticated):
		flashError(c, I18nWeb(c, "pages.books.toasts.loginRequired"))
	case errors.Is(err, service.ErrForbidden):
		flashError(c, I18nWeb(c, "pages.books.toasts.failed"))
	default:
		logger.Warning("book operation failed:", err)
		flashError(c, I18nWeb(c, "pages.books.toasts.failed"))
	}
	c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
}

func (a *BookController) bookId(c *gin.Context) (int, error) {
	return strconv.Atoi(c.Param("id"))
}

// registerForm shows the book registration page.
func (a *BookController) registerForm(c *gin.Context) {
	html(c, "book_register.html", "pages.books.registerTitle", nil)
}

// register creates a book owned by the logged-in member.
func (a *BookController) register(c *gin.Context) {
	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		flashError(c, I18nWeb(c, "pages.books.toasts.invalidFormData"))
		c.Redirect(http.StatusFound, c.GetString("base_path")+"book/register")
		return
	}

	book := &model.Book{
		Title:       form.Title,
		Author:      form.Author,
		Price:       form.Price,
		Pages:       form.Pages,
		Description: form.Description,
	}

	if _, err := a.bookService.Register(book, session.GetIdentity(c)); err != nil {
		a.redirectListWithError(c, err)
		return
	}

	flashSuccess(c, I18nWeb(c, "pages.books.toasts.registered"))
	c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
}

// detail shows one book.
func (a *BookController) detail(c *gin.Context) {
	id, err := a.bookId(c)
	if err != nil {
		a.redirectListWithError(c, service.ErrBookNotFound)
		return
	}

	book, err := a.bookService.Get(id)
	if err != nil {
		a.redirectListWithError(c, err)
		return
	}

	html(c, "book_detail.html", "pages.books.detailTitle", gin.H{
		"book": book,
	})
}

// editForm shows the edit page for a book.
func (a *BookController) editForm(c *gin.Context) {
	id, err := a.bookId(c)
	if err != nil {
		a.redirectListWithError(c, service.ErrBookNotFound)
		return
	}

	book, err := a.bookService.Get(id)
	if err != nil {
		a.redirectListWithError(c, err)
		return
	}

	html(c, "book_edit.html", "pages.books.editTitle", gin.H{
		"book": book,
	})
}

// edit applies an owner-only update to a book.
func (a *BookController) edit(c *gin.Context) {
	id, err := a.bookId(c)
	if err != nil {
		a.redirectListWithError(c, service.ErrBookNotFound)
		return
	}

	var form BookForm
	if err := c.ShouldBind(&form); err != nil {
		flashError(c, I18nWeb(c, "pages.books.toasts.invalidFormData"))
		c.Redirect(http.StatusFound, c.GetString("base_path")+"book/edit/"+strconv.Itoa(id))
		return
	}

	patch := &model.Book{
		Title:       form.Title,
		Author:      form.Author,
		Price:       form.Price,
		Pages:       form.Pages,
		Description: form.Description,
	}

	if _, err := a.bookService.Update(id, patch, session.GetIdentity(c)); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			flashError(c, I18nWeb(c, "pages.books.toasts.onlyOwnerEdit"))
			c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
			return
		}
		a.redirectListWithError(c, err)
		return
	}

	flashSuccess(c, I18nWeb(c, "pages.books.toasts.updated"))
	c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
}

// delete removes a book for its owner or an admin.
func (a *BookController) delete(c *gin.Context) {
	id, err := a.bookId(c)
	if err != nil {
		a.redirectListWithError(c, service.ErrBookNotFound)
		return
	}

	principal := session.GetPrincipal(c)
	if err := a.bookService.Delete(id, principal.Identity, principal.Permissions); err != nil {
		if errors.Is(err, service.ErrForbidden) {
			flashError(c, I18nWeb(c, "pages.books.toasts.noDeletePermission"))
			c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
			return
		}
		a.redirectListWithError(c, err)
		return
	}

	flashSuccess(c, I18nWeb(c, "pages.books.toasts.deleted"))
	c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
}

// myBooks lists the caller's own registrations.
func (a *BookController) myBooks(c *gin.Context) {
	books, err := a.bookService.GetByOwner(session.GetIdentity(c))
	if err != nil {
		a.redirectListWithError(c, err)
		return
	}

	html(c, "book_list.html", "pages.books.myBooksTitle", gin.H{
		"books": books,
	})
}

// search renders a case-insensitive title substring search.
func (a *BookController) search(c *gin.Context) {
	title := c.Query("title")

	data := gin.H{
		"searchKeyword": title,
	}
	if title != "" {
		books, err := a.bookService.SearchByTitle(title)
		if err != nil {
			a.redirectListWithError(c, err)
			return
		}
		data["books"] = books
	}

	html(c, "book_search.html", "pages.books.searchTitle", data)
}

// qrcode serves a QR code pointing at the book's detail page.
func (a *BookController) qrcode(c *gin.Context) {
	id, err := a.bookId(c)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	if _, err := a.bookService.Get(id); err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	url := fmt.Sprintf("%s://%s%sbook/detail/%d", scheme, c.Request.Host, c.GetString("base_path"), id)

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		logger.Warning("generate qrcode failed:", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
