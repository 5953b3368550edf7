package controller

import (
	"strconv"
	"sync"

	"bookshelf/database/model"
	"bookshelf/logger"
	"bookshelf/web/entity"
	"bookshelf/web/global"
	"bookshelf/web/middleware"
	"bookshelf/web/service"

	"github.com/gin-gonic/gin"
)

// AdminController serves the admin-only pages: member list, host status and
// recent logs.
type AdminController struct {
	BaseController

	memberService service.MemberService
	bookService   service.BookService
	serverService service.ServerService

	statusMu   sync.RWMutex
	lastStatus *service.Status
}

// NewAdminController creates a new AdminController and initializes its routes.
func NewAdminController(g *gin.RouterGroup) *AdminController {
	a := &AdminController{}
	a.initRouter(g)
	a.startTask()
	return a
}

// refreshStatus updates the cached status snapshot.
func (a *AdminController) refreshStatus() {
	status := a.serverService.GetStatus()
	a.statusMu.Lock()
	a.lastStatus = status
	a.statusMu.Unlock()
}

// startTask schedules the periodic status refresh on the server's cron.
func (a *AdminController) startTask() {
	webServer := global.GetWebServer()
	if webServer == nil {
		return
	}
	a.refreshStatus()
	webServer.GetCron().AddFunc("@every 10s", func() {
		a.refreshStatus()
	})
}

func (a *AdminController) initRouter(g *gin.RouterGroup) {
	g = g.Group("/admin")
	g.Use(a.checkLogin)
	g.Use(middleware.PermissionRequired(entity.AdminPermission))

	g.GET("/members", a.members)
	g.GET("/status", a.status)
	g.GET("/logs", a.logs)
}

// memberRow is a member plus its registration count, for the admin table.
type memberRow struct {
	Member    *model.Member `json:"member"`
	BookCount int64         `json:"bookCount"`
}

// members renders all members with their roles and book counts.
func (a *AdminController) members(c *gin.Context) {
	members, err := a.memberService.GetAll()
	if err != nil {
		logger.Warning("load members failed:", err)
		flashError(c, I18nWeb(c, "pages.books.toasts.failed"))
	}

	rows := make([]memberRow, 0, len(members))
	for _, m := range members {
		count, err := a.bookService.CountByOwner(m.Id)
		if err != nil {
			logger.Warning("count books failed:", err)
		}
		rows = append(rows, memberRow{Member: m, BookCount: count})
	}

	html(c, "admin_members.html", "pages.admin.membersTitle", gin.H{
		"rows": rows,
	})
}

// status returns the cached host and process health snapshot, collected
// fresh when the refresh task has not produced one yet.
func (a *AdminController) status(c *gin.Context) {
	a.statusMu.RLock()
	status := a.lastStatus
	a.statusMu.RUnlock()
	if status == nil {
		status = a.serverService.GetStatus()
	}
	jsonObj(c, status, nil)
}

// logs returns recent buffered log lines, newest first.
func (a *AdminController) logs(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "50"))
	if err != nil || count <= 0 {
		count = 50
	}
	level := c.DefaultQuery("level", "INFO")

	jsonObj(c, logger.GetLogs(count, level), nil)
}
