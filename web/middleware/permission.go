package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookshelf/web/session"
)

// PermissionRequired guards a route group behind one of the given permission
// labels. Unauthenticated callers get 401, authenticated ones without a
// matching label get 403.
func PermissionRequired(labels ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := session.GetPrincipal(c)
		if principal == nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		for _, label := range labels {
			if principal.HasPermission(label) {
				c.Next()
				return
			}
		}
		c.AbortWithStatus(http.StatusForbidden)
	}
}
