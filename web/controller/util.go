package controller

import (
	"net"
	"net/http"
	"strings"

	"bookshelf/config"
	"bookshelf/logger"
	"bookshelf/web/entity"
	"bookshelf/web/session"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	flashSuccessKey = "FLASH_SUCCESS"
	flashErrorKey   = "FLASH_ERROR"
)

// getRemoteIp extracts the real IP address from the request headers or
// remote address.
func getRemoteIp(c *gin.Context) string {
	value := c.GetHeader("X-Real-IP")
	if value != "" {
		return value
	}
	value = c.GetHeader("X-Forwarded-For")
	if value != "" {
		ips := strings.Split(value, ",")
		return ips[0]
	}
	addr := c.Request.RemoteAddr
	ip, _, _ := net.SplitHostPort(addr)
	return ip
}

// jsonMsg sends a JSON response with a message and error status.
func jsonMsg(c *gin.Context, msg string, err error) {
	jsonMsgObj(c, msg, nil, err)
}

// jsonObj sends a JSON response with an object and error status.
func jsonObj(c *gin.Context, obj any, err error) {
	jsonMsgObj(c, "", obj, err)
}

func jsonMsgObj(c *gin.Context, msg string, obj any, err error) {
	m := entity.Msg{
		Obj: obj,
	}
	if err == nil {
		m.Success = true
		if msg != "" {
			m.Msg = msg
		}
	} else {
		m.Success = false
		m.Msg = msg + " (" + err.Error() + ")"
		logger.Warning(msg+" "+I18nWeb(c, "fail")+": ", err)
	}
	c.JSON(http.StatusOK, m)
}

// pureJsonMsg sends a pure JSON message response with custom status code.
func pureJsonMsg(c *gin.Context, statusCode int, success bool, msg string) {
	c.JSON(statusCode, entity.Msg{
		Success: success,
		Msg:     msg,
	})
}

// flashSuccess stores a success message shown on the next rendered page.
func flashSuccess(c *gin.Context, msg string) {
	addFlash(c, flashSuccessKey, msg)
}

// flashError stores an error message shown on the next rendered page.
func flashError(c *gin.Context, msg string) {
	addFlash(c, flashErrorKey, msg)
}

func addFlash(c *gin.Context, key string, msg string) {
	s := sessions.Default(c)
	s.AddFlash(msg, key)
	if err := s.Save(); err != nil {
		logger.Warning("Unable to save flash message:", err)
	}
}

// takeFlashes pops all pending flash messages for the given key.
func takeFlashes(c *gin.Context, key string) []string {
	s := sessions.Default(c)
	flashes := s.Flashes(key)
	if len(flashes) == 0 {
		return nil
	}
	if err := s.Save(); err != nil {
		logger.Warning("Unable to save session after reading flashes:", err)
	}
	msgs := make([]string, 0, len(flashes))
	for _, f := range flashes {
		if msg, ok := f.(string); ok {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

// html renders an HTML template with the provided data and title, attaching
// the session principal and any pending flash messages.
func html(c *gin.Context, name string, title string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["title"] = title
	data["base_path"] = c.GetString("base_path")
	data["i18n"] = func(key string, params ...string) string {
		return I18nWeb(c, key, params...)
	}
	data["principal"] = session.GetPrincipal(c)
	data["successMessages"] = takeFlashes(c, flashSuccessKey)
	data["errorMessages"] = takeFlashes(c, flashErrorKey)
	c.HTML(http.StatusOK, name, getContext(data))
}

// getContext adds version context data to the provided gin.H.
func getContext(h gin.H) gin.H {
	a := gin.H{
		"cur_ver": config.GetVersion(),
	}
	for key, value := range h {
		a[key] = value
	}
	return a
}

// isAjax checks if the request is an AJAX request.
func isAjax(c *gin.Context) bool {
	return c.GetHeader("X-Requested-With") == "XMLHttpRequest"
}
