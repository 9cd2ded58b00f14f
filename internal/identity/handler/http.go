// Package handler exposes the auth service over HTTP under /auth.
package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/identity/service"
	"movie-booking-admin/backend/internal/platform/apperr"
	"movie-booking-admin/backend/internal/platform/response"
	"movie-booking-admin/backend/internal/server/middleware"
	sessiondomain "movie-booking-admin/backend/internal/session/domain"
	userdomain "movie-booking-admin/backend/internal/user/domain"
)

// Handler-level messages.
const (
	MsgSignupFailed = "An error occurred while creating the user"
	MsgBadRequest   = "Invalid request body."
	MsgMeOK         = "User details fetched successfully"
)

// AuthHandler serves the /auth routes.
type AuthHandler struct {
	auth *service.AuthService
	log  *zap.Logger
}

// NewAuthHandler returns an AuthHandler. log may be nil.
func NewAuthHandler(auth *service.AuthService, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthHandler{auth: auth, log: log}
}

// Register mounts the routes. public and private are both rooted at /auth; private already
// carries the auth middleware. limit guards the credential endpoints.
func (h *AuthHandler) Register(public, private *gin.RouterGroup, limit gin.HandlerFunc) {
	public.POST("/signup", limit, h.Signup)
	public.POST("/login", limit, h.Login)
	public.POST("/refresh", limit, h.Refresh)

	private.DELETE("/logout", h.Logout)
	private.PUT("/deactivate-user", h.Deactivate)
	private.POST("/change-password", h.ChangePassword)
	private.DELETE("/delete-user", h.DeleteUser)
	private.POST("/update-user", h.UpdateUser)
	private.GET("/me", h.Me)
}

// Signup handles POST /auth/signup. Every failure is reported as 5000.
func (h *AuthHandler) Signup(c *gin.Context) {
	var in service.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.Write(c, response.Failure(response.CodeServerError, MsgSignupFailed))
		return
	}
	if err := h.auth.Signup(c.Request.Context(), in); err != nil {
		h.logFailure(c, "signup", err)
		env := response.FromError(err, MsgSignupFailed)
		if apperr.KindOf(err) == apperr.KindStore {
			env.Msg = MsgSignupFailed
		}
		env.StatusCode = response.CodeServerError
		response.Write(c, env)
		return
	}
	response.Created(c, service.MsgSignupOK, nil)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Write(c, response.Failure(response.CodeClientError, service.MsgInvalidCredentials))
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.logFailure(c, "login", err)
		response.Fail(c, err, service.MsgGenericError)
		return
	}
	response.OK(c, service.MsgLoginOK, res)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Write(c, response.Failure(response.CodeClientError, service.MsgInvalidRefreshToken))
		return
	}
	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.logFailure(c, "refresh", err)
		response.Fail(c, err, service.MsgGenericError)
		return
	}
	response.OK(c, service.MsgTokenRefreshed, res)
}

// Logout handles DELETE /auth/logout. An already expired session still reports success.
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	outcome, err := h.auth.Logout(c.Request.Context(), p)
	if err != nil {
		h.logFailure(c, "logout", err)
		response.Write(c, response.Failure(response.CodeServerError, service.MsgLogoutFailed))
		return
	}
	if outcome == service.LogoutAlreadyInvalid {
		h.log.Info("logout: session had already expired")
	}
	response.OK(c, service.MsgLogoutOK, nil)
}

// Deactivate handles PUT /auth/deactivate-user.
func (h *AuthHandler) Deactivate(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.auth.Deactivate(c.Request.Context(), p); err != nil {
		h.logFailure(c, "deactivate", err)
		response.Fail(c, err, service.MsgGenericErrorLower)
		return
	}
	response.OK(c, service.MsgDeactivateOK, nil)
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword handles POST /auth/change-password. Only validation failures surface their
// message; anything else, a wrong old password included, is "Password was not updated.".
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Write(c, response.Failure(response.CodeClientError, MsgBadRequest))
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), p, req.OldPassword, req.NewPassword); err != nil {
		h.logFailure(c, "change_password", err)
		if apperr.KindOf(err) == apperr.KindValidation {
			response.Fail(c, err, service.MsgPasswordNotUpdated)
			return
		}
		response.Write(c, response.Failure(response.CodeServerError, service.MsgPasswordNotUpdated))
		return
	}
	response.OK(c, service.MsgPasswordChanged, nil)
}

// DeleteUser handles DELETE /auth/delete-user.
func (h *AuthHandler) DeleteUser(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	if err := h.auth.DeleteUser(c.Request.Context(), p); err != nil {
		h.logFailure(c, "delete_user", err)
		response.Fail(c, err, service.MsgGenericErrorLower)
		return
	}
	response.OK(c, service.MsgUserDeleted, nil)
}

// UpdateUser handles POST /auth/update-user.
func (h *AuthHandler) UpdateUser(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	var patch userdomain.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Write(c, response.Failure(response.CodeClientError, MsgBadRequest))
		return
	}
	if err := h.auth.UpdateUser(c.Request.Context(), p, patch); err != nil {
		h.logFailure(c, "update_user", err)
		response.Fail(c, err, service.MsgGenericError)
		return
	}
	response.OK(c, service.MsgUserUpdated, nil)
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := h.principal(c)
	if !ok {
		return
	}
	ident, err := h.auth.Me(c.Request.Context(), p)
	if err != nil {
		response.Fail(c, err, service.MsgGenericError)
		return
	}
	response.OK(c, MsgMeOK, ident)
}

// principal returns the caller set by the auth middleware, or writes a failure.
func (h *AuthHandler) principal(c *gin.Context) (sessiondomain.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		response.Write(c, response.Failure(response.CodeClientError, middleware.MsgMissingToken))
	}
	return p, ok
}

func (h *AuthHandler) logFailure(c *gin.Context, op string, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindStore {
		h.log.Error("auth: "+op+" failed", zap.String("route", c.FullPath()), zap.Error(err))
		return
	}
	h.log.Info("auth: "+op+" rejected", zap.String("kind", kind.String()), zap.Error(err))
}
