package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check is a named readiness probe.
type Check struct {
	Name string
	Fn   func(ctx context.Context) error
}

type HealthHandler struct {
	checks []Check
}

func NewHealthHandler(checks ...Check) *HealthHandler { return &HealthHandler{checks: checks} }

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	failed := gin.H{}
	for _, chk := range h.checks {
		if chk.Fn == nil {
			continue
		}
		if err := chk.Fn(ctx); err != nil {
			failed[chk.Name] = err.Error()
		}
	}
	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "failed": failed})
		return
	}
	c.String(http.StatusOK, "ok")
}
