package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bookshelf/web/service"
)

const requestIdHeader = "X-Request-Id"

// RequestIdMiddleware tags every request with a request id (honoring one
// supplied by a proxy) and feeds the served-request counter.
func RequestIdMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(requestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set("request_id", requestId)
		c.Header(requestIdHeader, requestId)

		service.CountRequest()
		c.Next()
	}
}
