// Package handler serves the caller's own audit trail.
package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/audit/domain"
	auditrepo "movie-booking-admin/backend/internal/audit/repository"
	"movie-booking-admin/backend/internal/platform/response"
	"movie-booking-admin/backend/internal/server/middleware"
)

const (
	MsgLogsListed  = "Audit logs fetched successfully"
	MsgUnknownUser = "User does not exist"
	MsgBadPage     = "limit and offset must be non-negative integers."
	MsgListFailed  = "An error occurred."

	defaultLimit = 50
	maxLimit     = 200
)

// AuditHandler lists audit entries recorded for the authenticated user.
type AuditHandler struct {
	repo    auditrepo.Repository
	resolve middleware.UserResolver
	log     *zap.Logger
}

// NewAuditHandler returns an AuditHandler. resolve maps the token's session key to a user id.
func NewAuditHandler(repo auditrepo.Repository, resolve middleware.UserResolver, log *zap.Logger) *AuditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditHandler{repo: repo, resolve: resolve, log: log}
}

// Register mounts GET /logs on g, which must carry the auth middleware.
func (h *AuditHandler) Register(g *gin.RouterGroup) {
	g.GET("/logs", h.List)
}

// List handles GET /audit/logs?limit=&offset=, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Write(c, response.Failure(response.CodeClientError, middleware.MsgMissingToken))
		return
	}
	limit, errL := pageParam(c, "limit", defaultLimit)
	offset, errO := pageParam(c, "offset", 0)
	if errL != nil || errO != nil {
		response.Write(c, response.Failure(response.CodeClientError, MsgBadPage))
		return
	}
	limit = min(limit, maxLimit)
	if limit == 0 {
		limit = defaultLimit
	}

	userID := h.resolve(c.Request.Context(), p.SessionKey)
	if userID == "" {
		response.Write(c, response.Failure(response.CodeClientError, MsgUnknownUser))
		return
	}
	logs, err := h.repo.ListByUser(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.log.Error("list audit logs", zap.String("user_id", userID), zap.Error(err))
		response.Write(c, response.Failure(response.CodeServerError, MsgListFailed))
		return
	}
	if logs == nil {
		logs = []*domain.AuditLog{}
	}
	response.OK(c, MsgLogsListed, logs)
}

func pageParam(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
