package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LimitBody caps request bodies at n bytes; reads past it fail and binding returns 400.
func LimitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil && n > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
