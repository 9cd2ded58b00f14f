package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func serve(h *Handler) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	return w
}

func ok(context.Context) error { return nil }

func TestHealth_AllChecksPass(t *testing.T) {
	w := serve(NewHandler(nil, Check{Name: "postgres", Ping: ok}, Check{Name: "session_cache", Ping: ok}, Check{Name: "skipped"}))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHealth_NamesFailingComponent(t *testing.T) {
	down := func(context.Context) error { return errors.New("connection refused") }
	w := serve(NewHandler(nil, Check{Name: "postgres", Ping: ok}, Check{Name: "session_cache", Ping: down}))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.JSONEq(t, `{"status":"unavailable","component":"session_cache"}`, w.Body.String())
}

func TestHealth_PingGetsDeadline(t *testing.T) {
	var hasDeadline bool
	probe := func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}
	serve(NewHandler(nil, Check{Name: "postgres", Ping: probe}))
	require.True(t, hasDeadline)
}
