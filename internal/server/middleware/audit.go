package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"movie-booking-admin/backend/internal/audit"
	"movie-booking-admin/backend/internal/platform/response"
)

// UserResolver maps a session key to a user id, or "" when unknown.
type UserResolver func(ctx context.Context, sessionKey string) string

type auditMetadata struct {
	StatusCode int    `json:"status_code"`
	Method     string `json:"method"`
	Path       string `json:"path"`
}

// Audit records an audit entry after each mutating request. The user is resolved before the
// handler runs so logout and delete are still attributed. Writes are best-effort.
func Audit(logger audit.AuditLogger, resolve UserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !mutating(c.Request.Method) || logger == nil {
			c.Next()
			return
		}
		userID := ""
		if p, ok := CurrentPrincipal(c); ok && resolve != nil {
			userID = resolve(c.Request.Context(), p.SessionKey)
		}
		c.Next()

		r := route(c)
		ar := audit.ParseRoute(c.Request.Method, r)
		meta, _ := json.Marshal(auditMetadata{
			StatusCode: c.GetInt(response.CodeKey),
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
		})
		logger.LogEvent(context.WithoutCancel(c.Request.Context()), audit.Entry{
			UserID:   userID,
			Action:   ar.Action,
			Resource: ar.Resource,
			IP:       c.ClientIP(),
			Metadata: string(meta),
		})
	}
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
