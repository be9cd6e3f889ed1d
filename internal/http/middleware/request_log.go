package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/majormatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/majormatch-backend/internal/platform/logger"
)

// RequestLogger writes one access line per request. Handler errors attached
// with c.Error are included so 500s carry their cause.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()
		kv := accessFields(c, route, status, time.Since(start))

		switch {
		case status >= 500:
			log.Error("HTTP request", kv...)
		case status >= 400:
			log.Warn("HTTP request", kv...)
		default:
			log.Info("HTTP request", kv...)
		}
	}
}

func accessFields(c *gin.Context, route string, status int, took time.Duration) []any {
	kv := []any{
		"method", c.Request.Method,
		"route", route,
		"status", status,
		"duration_ms", took.Milliseconds(),
		"bytes", c.Writer.Size(),
	}
	ctx := c.Request.Context()
	if td := ctxutil.GetTraceData(ctx); td != nil {
		kv = append(kv, "trace_id", td.TraceID, "request_id", td.RequestID)
	}
	if rd := ctxutil.GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
		kv = append(kv, "user_id", rd.UserID.String())
	}
	if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
		kv = append(kv, "error", errs.String())
	}
	return kv
}
