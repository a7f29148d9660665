// Package handlers – health endpoint
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// HealthHandler reports process liveness and store reachability.
type HealthHandler struct {
	DB *gorm.DB
}

// Healthz is the GET /healthz handler. It pings the underlying store so a
// wedged database file surfaces as 503 instead of a healthy-looking process.
func (h *HealthHandler) Healthz(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeUnhealthy, "database unreachable")
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "ok"})
}
