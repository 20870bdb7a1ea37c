package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/relaybot/internal/http/response"
)

// Pinger is anything readiness depends on.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler takes named dependencies checked by Ready. Nil entries are skipped.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	clean := map[string]Pinger{}
	for name, p := range checks {
		if p != nil {
			clean[name] = p
		}
	}
	return &HealthHandler{checks: clean}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := map[string]string{}
	for name, p := range h.checks {
		if err := p.Ping(ctx); err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, name+"_unavailable", err)
			return
		}
		status[name] = "ok"
	}
	response.RespondOK(c, gin.H{"status": "ready", "checks": status})
}
