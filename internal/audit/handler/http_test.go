package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"movie-booking-admin/backend/internal/audit/domain"
	"movie-booking-admin/backend/internal/platform/response"
	"movie-booking-admin/backend/internal/server/middleware"
	sessiondomain "movie-booking-admin/backend/internal/session/domain"
)

type listCall struct {
	userID        string
	limit, offset int
}

type fakeRepo struct {
	logs  []*domain.AuditLog
	err   error
	calls []listCall
}

func (f *fakeRepo) Create(context.Context, *domain.AuditLog) error { return nil }

func (f *fakeRepo) ListByUser(_ context.Context, userID string, limit, offset int) ([]*domain.AuditLog, error) {
	f.calls = append(f.calls, listCall{userID, limit, offset})
	return f.logs, f.err
}

func resolveKnown(_ context.Context, sessionKey string) string {
	if sessionKey == "sess-1" {
		return "user-1"
	}
	return ""
}

func serve(t *testing.T, repo *fakeRepo, sessionKey, query string) response.Envelope {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/audit", func(c *gin.Context) {
		if sessionKey != "" {
			ctx := middleware.WithPrincipal(c.Request.Context(), sessiondomain.Principal{SessionKey: sessionKey})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	})
	NewAuditHandler(repo, resolveKnown, nil).Register(g)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audit/logs"+query, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestList_OwnEntries(t *testing.T) {
	repo := &fakeRepo{logs: []*domain.AuditLog{
		{ID: "a1", UserID: "user-1", Action: "create", Resource: "movie", CreatedAt: time.Now()},
	}}
	env := serve(t, repo, "sess-1", "?limit=10&offset=5")
	require.Equal(t, response.CodeOK, env.StatusCode)
	require.Equal(t, MsgLogsListed, env.Msg)
	require.Len(t, env.Data, 1)
	require.Equal(t, []listCall{{"user-1", 10, 5}}, repo.calls)
}

func TestList_Paging(t *testing.T) {
	repo := &fakeRepo{}
	env := serve(t, repo, "sess-1", "")
	require.Equal(t, response.CodeOK, env.StatusCode)
	require.Equal(t, []any{}, env.Data)

	serve(t, repo, "sess-1", "?limit=5000")
	require.Equal(t, listCall{"user-1", defaultLimit, 0}, repo.calls[0])
	require.Equal(t, listCall{"user-1", maxLimit, 0}, repo.calls[1])

	env = serve(t, repo, "sess-1", "?offset=-1")
	require.Equal(t, MsgBadPage, env.Msg)
	env = serve(t, repo, "sess-1", "?limit=abc")
	require.Equal(t, MsgBadPage, env.Msg)
	require.Len(t, repo.calls, 2)
}

func TestList_Failures(t *testing.T) {
	env := serve(t, &fakeRepo{}, "", "")
	require.Equal(t, response.CodeClientError, env.StatusCode)
	require.Equal(t, middleware.MsgMissingToken, env.Msg)

	env = serve(t, &fakeRepo{}, "sess-unknown", "")
	require.Equal(t, MsgUnknownUser, env.Msg)

	env = serve(t, &fakeRepo{err: errors.New("db down")}, "sess-1", "")
	require.Equal(t, response.CodeServerError, env.StatusCode)
	require.Equal(t, MsgListFailed, env.Msg)
}
