package controller

import (
	"errors"
	"net/http"
	"text/template"
	"time"

	"bookshelf/config"
	"bookshelf/database/model"
	"bookshelf/logger"
	"bookshelf/web/entity"
	"bookshelf/web/middleware"
	"bookshelf/web/service"
	"bookshelf/web/session"

	"github.com/gin-gonic/gin"
)

// LoginForm represents the login request structure.
type LoginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// RegisterForm represents the member registration form.
type RegisterForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
	Age      int    `json:"age" form:"age"`
	Email    string `json:"email" form:"email"`
}

// IndexController handles login, logout, member registration and the public
// catalog page.
type IndexController struct {
	BaseController

	memberService service.MemberService
	bookService   service.BookService
}

// NewIndexController creates a new IndexController and initializes its routes.
func NewIndexController(g *gin.RouterGroup) *IndexController {
	a := &IndexController{}
	a.initRouter(g)
	return a
}

func (a *IndexController) initRouter(g *gin.RouterGroup) {
	loginLimiter := middleware.NewLoginRateLimiter(time.Second, 10)

	g.GET("/", a.index)
	g.POST("/login", loginLimiter.Handler(), a.login)
	g.GET("/logout", a.logout)
	g.POST("/logout", a.logout)
	g.GET("/register", a.registerForm)
	g.POST("/register", a.register)
	g.GET("/ui/list", a.list)
}

// index shows the login page, or the catalog for logged-in members.
func (a *IndexController) index(c *gin.Context) {
	if session.IsLogin(c) {
		c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path")+"ui/list")
		return
	}
	html(c, "login.html", "pages.login.title", nil)
}

// login authenticates the member and binds the derived principal to the
// session. The principal is constructed exactly once per login.
func (a *IndexController) login(c *gin.Context) {
	var form LoginForm

	if err := c.ShouldBind(&form); err != nil {
		flashError(c, I18nWeb(c, "pages.login.toasts.invalidFormData"))
		c.Redirect(http.StatusFound, c.GetString("base_path"))
		return
	}
	if form.Username == "" {
		flashError(c, I18nWeb(c, "pages.login.toasts.emptyUsername"))
		c.Redirect(http.StatusFound, c.GetString("base_path"))
		return
	}
	if form.Password == "" {
		flashError(c, I18nWeb(c, "pages.login.toasts.emptyPassword"))
		c.Redirect(http.StatusFound, c.GetString("base_path"))
		return
	}

	member := a.memberService.CheckMember(form.Username, form.Password)
	safeUser := template.HTMLEscapeString(form.Username)

	if member == nil {
		logger.Warningf("wrong username or password for \"%s\", IP: \"%s\"", safeUser, getRemoteIp(c))
		flashError(c, I18nWeb(c, "pages.login.toasts.wrongUsernameOrPassword"))
		c.Redirect(http.StatusFound, c.GetString("base_path"))
		return
	}

	principal := entity.NewPrincipal(member)

	if err := session.SetMaxAge(c, config.GetSessionMaxAge()*60); err != nil {
		logger.Warning("Unable to set session max age:", err)
	}
	if err := session.SetPrincipal(c, &principal); err != nil {
		logger.Warning("Unable to save session:", err)
		flashError(c, I18nWeb(c, "pages.books.toasts.failed"))
		c.Redirect(http.StatusFound, c.GetString("base_path"))
		return
	}

	logger.Infof("%s logged in successfully, IP: %s", safeUser, getRemoteIp(c))
	c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
}

// logout clears the session and returns to the login page.
func (a *IndexController) logout(c *gin.Context) {
	if principal := session.GetPrincipal(c); principal != nil {
		logger.Infof("%s logged out successfully", principal.Identity)
	}
	if err := session.ClearSession(c); err != nil {
		logger.Warning("Unable to clear session:", err)
	}
	c.Redirect(http.StatusTemporaryRedirect, c.GetString("base_path"))
}

// registerForm shows the member registration page.
func (a *IndexController) registerForm(c *gin.Context) {
	html(c, "register.html", "pages.register.title", nil)
}

// register creates a member account with the default USER role.
func (a *IndexController) register(c *gin.Context) {
	var form RegisterForm

	if err := c.ShouldBind(&form); err != nil {
		flashError(c, I18nWeb(c, "pages.login.toasts.invalidFormData"))
		c.Redirect(http.StatusFound, c.GetString("base_path")+"register")
		return
	}

	member := &model.Member{
		Username: form.Username,
		Password: form.Password,
		Name:     form.Name,
		Age:      form.Age,
		Email:    form.Email,
	}

	if _, err := a.memberService.Register(member); err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			flashError(c, I18nWeb(c, "pages.register.toasts.usernameTaken"))
		} else {
			logger.Warning("member registration failed:", err)
			flashError(c, I18nWeb(c, "pages.register.toasts.failed"))
		}
		c.Redirect(http.StatusFound, c.GetString("base_path")+"register")
		return
	}

	flashSuccess(c, I18nWeb(c, "pages.register.toasts.success"))
	c.Redirect(http.StatusFound, c.GetString("base_path")+"ui/list")
}

// list renders the public catalog page, newest books first.
func (a *IndexController) list(c *gin.Context) {
	books, err := a.bookService.GetAll()
	if err != nil {
		logger.Warning("load catalog failed:", err)
		books = nil
	}
	html(c, "list.html", "pages.books.title", gin.H{
		"books": books,
	})
}
