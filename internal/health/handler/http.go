// Package handler serves the readiness probe used by load balancers and orchestrators.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const checkTimeout = 2 * time.Second

// Check is one dependency the service cannot run without.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type status struct {
	Status    string `json:"status"`
	Component string `json:"component,omitempty"`
}

// Handler answers GET /health by pinging every check in order.
type Handler struct {
	checks []Check
	log    *zap.Logger
}

// NewHandler returns a Handler. Checks with a nil Ping are skipped. log may be nil.
func NewHandler(log *zap.Logger, checks ...Check) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{checks: checks, log: log}
}

// Health writes 200 {"status":"ok"} when every check passes, otherwise 503 naming the first
// failing component.
func (h *Handler) Health(c *gin.Context) {
	for _, chk := range h.checks {
		if chk.Ping == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), checkTimeout)
		err := chk.Ping(ctx)
		cancel()
		if err != nil {
			h.log.Warn("health: check failed", zap.String("component", chk.Name), zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, status{Status: "unavailable", Component: chk.Name})
			return
		}
	}
	c.JSON(http.StatusOK, status{Status: "ok"})
}
