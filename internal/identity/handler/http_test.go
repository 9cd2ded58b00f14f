package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"movie-booking-admin/backend/internal/identity/service"
	"movie-booking-admin/backend/internal/platform/response"
	"movie-booking-admin/backend/internal/security"
	"movie-booking-admin/backend/internal/server/middleware"
	sessionrepo "movie-booking-admin/backend/internal/session/repository"
	userdomain "movie-booking-admin/backend/internal/user/domain"
)

// userStore is an in-memory service.UserRepo.
type userStore struct {
	mu   sync.Mutex
	byID map[string]*userdomain.User
}

func (s *userStore) Create(_ context.Context, u *userdomain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.byID[u.ID] = &c
	return nil
}

func (s *userStore) find(match func(*userdomain.User) bool) *userdomain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.IsActive && match(u) {
			c := *u
			return &c
		}
	}
	return nil
}

func (s *userStore) GetActiveByEmail(_ context.Context, email string) (*userdomain.User, error) {
	return s.find(func(u *userdomain.User) bool { return u.EmailID == email }), nil
}

func (s *userStore) GetActiveByID(_ context.Context, id string) (*userdomain.User, error) {
	return s.find(func(u *userdomain.User) bool { return u.ID == id }), nil
}

func (s *userStore) mutate(id string, fn func(*userdomain.User)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		fn(u)
	}
	return nil
}

func (s *userStore) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	return s.mutate(id, func(u *userdomain.User) { u.LastLogin = &at })
}

func (s *userStore) UpdatePassword(_ context.Context, id, hash string, at time.Time) error {
	return s.mutate(id, func(u *userdomain.User) { u.Password = hash; u.ModifiedAt = at })
}

func (s *userStore) Deactivate(_ context.Context, id string, at time.Time) error {
	return s.mutate(id, func(u *userdomain.User) { u.IsActive = false })
}

func (s *userStore) MarkDeleted(_ context.Context, id string, at time.Time) error {
	return s.mutate(id, func(u *userdomain.User) { u.IsDeleted = true })
}

func (s *userStore) UpdateProfile(_ context.Context, u *userdomain.User) error {
	return s.mutate(u.ID, func(stored *userdomain.User) { *stored = *u })
}

type testServer struct {
	router *gin.Engine
	users  *userStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	users := &userStore{byID: map[string]*userdomain.User{}}
	sessions := sessionrepo.NewCache(sessionrepo.NewMemoryKV(128, time.Hour))
	tokens := security.NewTestHMACTokenProvider()
	svc := service.NewAuthService(users, sessions, security.NewHasher(4), tokens, nil, nil, time.Hour)

	r := gin.New()
	requireAuth := middleware.Auth(tokens, sessions, middleware.HeaderConfig{Name: "Authorization", Type: "Bearer"}, nil)
	NewAuthHandler(svc, nil).Register(r.Group("/auth"), r.Group("/auth", requireAuth), func(c *gin.Context) { c.Next() })
	return &testServer{router: r, users: users}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) response.Envelope {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, "transport status is always 200")
	var env response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func (s *testServer) signup(t *testing.T) {
	t.Helper()
	env := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email_id":   "ada@example.com",
		"password":   "pw-1",
		"phone":      "9876543210",
	})
	require.Equal(t, response.CodeCreated, env.StatusCode)
	require.Equal(t, service.MsgSignupOK, env.Msg)
}

func (s *testServer) login(t *testing.T, password string) (string, map[string]any) {
	t.Helper()
	env := s.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "ada@example.com", "password": password})
	require.Equal(t, response.CodeOK, env.StatusCode, "login: %v", env.Msg)
	require.Equal(t, service.MsgLoginOK, env.Msg)
	data := env.Data.(map[string]any)
	return data["access_token"].(string), data
}

func TestSessionLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.signup(t)

	token, data := s.login(t, "pw-1")
	require.NotEmpty(t, data["refresh_token"])
	require.NotContains(t, data, "r_key")
	require.Equal(t, "ada@example.com", data["email_id"])
	require.Equal(t, "", data["last_login"])

	me := s.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, response.CodeOK, me.StatusCode)

	out := s.do(t, http.MethodDelete, "/auth/logout", token, nil)
	require.Equal(t, response.CodeOK, out.StatusCode)
	require.Equal(t, service.MsgLogoutOK, out.Msg)

	rejected := s.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, response.CodeClientError, rejected.StatusCode)
	require.Equal(t, middleware.MsgRevokedToken, rejected.Msg)

	again, data := s.login(t, "pw-1")
	require.NotEqual(t, token, again)
	require.NotEmpty(t, data["last_login"])
	require.Equal(t, response.CodeOK, s.do(t, http.MethodGet, "/auth/me", again, nil).StatusCode)
}

func TestSignup_Failures(t *testing.T) {
	s := newTestServer(t)
	env := s.do(t, http.MethodPost, "/auth/signup", "", map[string]string{"first_name": "", "email_id": "", "password": ""})
	require.Equal(t, response.CodeServerError, env.StatusCode)
	require.Equal(t, service.MsgPasswordRequired, env.Msg)
	require.Empty(t, s.users.byID)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	s := newTestServer(t)
	s.signup(t)
	for _, creds := range []map[string]string{
		{"username": "ada@example.com", "password": "nope"},
		{"username": "ghost@example.com", "password": "pw-1"},
	} {
		env := s.do(t, http.MethodPost, "/auth/login", "", creds)
		require.Equal(t, response.CodeClientError, env.StatusCode)
		require.Equal(t, service.MsgInvalidCredentials, env.Msg)
		require.Nil(t, env.Data)
	}
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)
	s.signup(t)
	token, _ := s.login(t, "pw-1")

	env := s.do(t, http.MethodPost, "/auth/change-password", token, map[string]string{"old_password": "x", "new_password": "x"})
	require.Equal(t, response.CodeClientError, env.StatusCode)
	require.Equal(t, service.MsgPasswordSame, env.Msg)

	env = s.do(t, http.MethodPost, "/auth/change-password", token, map[string]string{"old_password": "wrong", "new_password": "pw-2"})
	require.Equal(t, response.CodeServerError, env.StatusCode)
	require.Equal(t, service.MsgPasswordNotUpdated, env.Msg)

	env = s.do(t, http.MethodPost, "/auth/change-password", token, map[string]string{"old_password": "pw-1", "new_password": "pw-2"})
	require.Equal(t, response.CodeOK, env.StatusCode)
	require.Equal(t, service.MsgPasswordChanged, env.Msg)

	s.login(t, "pw-2")
}

func TestAccountOperations(t *testing.T) {
	s := newTestServer(t)
	s.signup(t)
	token, _ := s.login(t, "pw-1")

	env := s.do(t, http.MethodPost, "/auth/update-user", token, map[string]string{"first_name": "Grace", "last_name": ""})
	require.Equal(t, response.CodeOK, env.StatusCode)
	require.Equal(t, service.MsgUserUpdated, env.Msg)
	me := s.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, "Grace", me.Data.(map[string]any)["first_name"])
	require.Equal(t, "Lovelace", me.Data.(map[string]any)["last_name"])

	env = s.do(t, http.MethodDelete, "/auth/delete-user", token, nil)
	require.Equal(t, service.MsgUserDeleted, env.Msg)

	for i := 0; i < 2; i++ {
		env = s.do(t, http.MethodPut, "/auth/deactivate-user", token, nil)
		require.Equal(t, response.CodeOK, env.StatusCode)
		require.Equal(t, service.MsgDeactivateOK, env.Msg)
	}
}

func TestPrivateRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	env := s.do(t, http.MethodDelete, "/auth/logout", "", nil)
	require.Equal(t, response.CodeClientError, env.StatusCode)
	require.Equal(t, middleware.MsgMissingToken, env.Msg)
}

func TestRefresh(t *testing.T) {
	s := newTestServer(t)
	s.signup(t)
	_, data := s.login(t, "pw-1")

	env := s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": data["refresh_token"].(string)})
	require.Equal(t, response.CodeOK, env.StatusCode)
	fresh := env.Data.(map[string]any)["access_token"].(string)
	require.Equal(t, response.CodeOK, s.do(t, http.MethodGet, "/auth/me", fresh, nil).StatusCode)

	env = s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": ""})
	require.Equal(t, service.MsgInvalidRefreshToken, env.Msg)
}

func TestLogout_EndsRefreshedTokens(t *testing.T) {
	s := newTestServer(t)
	s.signup(t)
	first, data := s.login(t, "pw-1")

	env := s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": data["refresh_token"].(string)})
	require.Equal(t, response.CodeOK, env.StatusCode)
	refreshed := env.Data.(map[string]any)["access_token"].(string)

	env = s.do(t, http.MethodDelete, "/auth/logout", first, nil)
	require.Equal(t, response.CodeOK, env.StatusCode)

	env = s.do(t, http.MethodGet, "/auth/me", refreshed, nil)
	require.Equal(t, response.CodeClientError, env.StatusCode)
	require.Equal(t, middleware.MsgRevokedToken, env.Msg)

	env = s.do(t, http.MethodPost, "/auth/refresh", "", map[string]string{"refresh_token": data["refresh_token"].(string)})
	require.Equal(t, service.MsgInvalidRefreshToken, env.Msg)
}
