package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"movie-booking-admin/backend/internal/db"
	"movie-booking-admin/backend/internal/metrics"
	"movie-booking-admin/backend/internal/platform/apperr"
	"movie-booking-admin/backend/internal/security"
	sessiondomain "movie-booking-admin/backend/internal/session/domain"
	"movie-booking-admin/backend/internal/telemetry"
	telemetrydomain "movie-booking-admin/backend/internal/telemetry/domain"
	userdomain "movie-booking-admin/backend/internal/user/domain"
)

// Caller-facing messages.
const (
	MsgSignupOK            = "User created successfully!"
	MsgLoginOK             = "User authentication successful"
	MsgInvalidCredentials  = "Invalid username/password. Please try again!"
	MsgLogoutOK            = "user logged out successfully"
	MsgLogoutFailed        = "Unable to logout"
	MsgDeactivateOK        = "User deactivated successfully!"
	MsgPasswordSame        = "New password cannot be same as old one's."
	MsgInvalidOldPassword  = "Invalid old password."
	MsgPasswordNotUpdated  = "Password was not updated."
	MsgPasswordChanged     = "Password changed successfully"
	MsgUserDeleted         = "User deleted successfully"
	MsgUserNotFound        = "User does not exist"
	MsgUserUpdated         = "User updated successfully."
	MsgTokenRefreshed      = "Token refreshed successfully"
	MsgSessionExpired      = "Session has expired. Please login again."
	MsgPasswordRequired    = "Password is required."
	MsgEmailRegistered     = "Email already registered."
	MsgInvalidRefreshToken = "Invalid or expired refresh token."
	MsgGenericError        = "An Error Occurred."
	MsgGenericErrorLower   = "An error occurred."
	dummyPasswordForTiming = "not-a-real-password"
)

// LogoutOutcome distinguishes a regular logout from one whose session had already expired.
// Both report success to the caller.
type LogoutOutcome int

const (
	LogoutCompleted LogoutOutcome = iota
	// LogoutAlreadyInvalid means no identity was cached for the session key.
	LogoutAlreadyInvalid
)

// SignupInput is the signup request.
type SignupInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	EmailID   string `json:"email_id"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
}

// LoginResult is the public identity plus the issued tokens. The session key is never included.
type LoginResult struct {
	sessiondomain.Identity
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// RefreshResult carries a new access token for an existing session.
type RefreshResult struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserRepo is the user persistence needed by the auth service.
type UserRepo interface {
	Create(ctx context.Context, u *userdomain.User) error
	GetActiveByEmail(ctx context.Context, email string) (*userdomain.User, error)
	GetActiveByID(ctx context.Context, id string) (*userdomain.User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, hash string, at time.Time) error
	Deactivate(ctx context.Context, id string, at time.Time) error
	MarkDeleted(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, u *userdomain.User) error
}

// SessionStore is the session cache needed by the auth service.
type SessionStore interface {
	PutIdentity(ctx context.Context, id *sessiondomain.Identity, ttl time.Duration) error
	GetIdentity(ctx context.Context, sessionKey string) (*sessiondomain.Identity, error)
	Forget(ctx context.Context, sessionKey string) error
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeSession(ctx context.Context, sessionKey string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionKey string) (bool, error)
}

// AuthService implements the session lifecycle: signup, login, logout, refresh and
// the self-service account operations of an authenticated user.
type AuthService struct {
	users      UserRepo
	sessions   SessionStore
	hasher     *security.Hasher
	tokens     *security.TokenProvider
	emitter    telemetry.EventEmitter
	log        *zap.Logger
	sessionTTL time.Duration
	now        func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService returns an AuthService. emitter and log may be nil.
func NewAuthService(
	users UserRepo,
	sessions SessionStore,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	emitter telemetry.EventEmitter,
	log *zap.Logger,
	sessionTTL time.Duration,
) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		emitter:    emitter,
		log:        log,
		sessionTTL: sessionTTL,
		now:        time.Now,
	}
}

// Signup creates an active user. It does not log the user in.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) error {
	if in.Password == "" {
		return apperr.Validation(MsgPasswordRequired)
	}
	now := s.now().UTC()
	u := &userdomain.User{
		ID:         newHexID(),
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		EmailID:    normalizeEmail(in.EmailID),
		IsActive:   true,
		CreatedAt:  now,
		ModifiedAt: now,
	}
	if phone := strings.TrimSpace(in.Phone); phone != "" {
		u.Phone = &phone
	}
	if problems := u.Validate(); len(problems) > 0 {
		return apperr.Invalid(problems...)
	}
	hash, err := s.hasher.Hash([]byte(in.Password))
	if err != nil {
		return apperr.Store(MsgGenericError, err)
	}
	u.Password = hash
	if err := s.users.Create(ctx, u); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Validation(MsgEmailRegistered)
		}
		return apperr.Store(MsgGenericError, err)
	}
	metrics.RecordAuth(telemetrydomain.EventSignup, true)
	s.emit(telemetrydomain.EventSignup, u.ID, nil)
	return nil
}

// Login verifies the credentials of an active user, caches the session identity under a
// new session key and issues tokens whose subject is that key. Unknown users and wrong
// passwords fail with the same message.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	email := normalizeEmail(username)
	if email == "" || password == "" {
		return nil, s.loginFailed("missing_credentials")
	}
	u, err := s.users.GetActiveByEmail(ctx, email)
	if err != nil {
		return nil, apperr.Store(MsgGenericError, err)
	}
	if u == nil {
		_ = s.hasher.Compare(s.dummy(), []byte(password))
		return nil, s.loginFailed("unknown_user")
	}
	if err := s.hasher.Compare(u.Password, []byte(password)); err != nil {
		return nil, s.loginFailed("bad_password")
	}

	sessionKey := newHexID()
	// Snapshot before last_login moves forward.
	ident := sessiondomain.NewIdentity(sessionKey, u)

	now := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, u.ID, now); err != nil {
		return nil, apperr.Store(MsgGenericError, err)
	}
	if err := s.sessions.PutIdentity(ctx, ident, s.sessionTTL); err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("put_identity").Inc()
		s.log.Error("login: cache identity", zap.String("user_id", u.ID), zap.Error(err))
		return nil, apperr.Store(MsgGenericError, err)
	}
	access, err := s.tokens.IssueAccess(sessionKey, true)
	if err != nil {
		return nil, apperr.Store(MsgGenericError, err)
	}
	refresh, err := s.tokens.IssueRefresh(sessionKey)
	if err != nil {
		return nil, apperr.Store(MsgGenericError, err)
	}

	metrics.RecordAuth("login", true)
	s.emit(telemetrydomain.EventLoginSuccess, u.ID, nil)
	return &LoginResult{
		Identity:     ident.Public(),
		AccessToken:  access.Value,
		RefreshToken: refresh.Value,
	}, nil
}

func (s *AuthService) loginFailed(reason string) error {
	metrics.RecordAuth("login", false)
	s.emit(telemetrydomain.EventLoginFailure, "", map[string]string{"reason": reason})
	return apperr.Auth(MsgInvalidCredentials)
}

// Logout revokes the presented token's jti and the whole session, so access tokens minted by
// Refresh stop working too, then forgets the cached identity. When the identity is already
// gone the revocations still happen and LogoutAlreadyInvalid is returned without error.
func (s *AuthService) Logout(ctx context.Context, p sessiondomain.Principal) (LogoutOutcome, error) {
	ident, err := s.sessions.GetIdentity(ctx, p.SessionKey)
	if err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("get_identity").Inc()
		return LogoutCompleted, apperr.Store(MsgLogoutFailed, err)
	}
	if err := s.sessions.Revoke(ctx, p.JTI, s.tokens.AccessTTL()); err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("revoke").Inc()
		return LogoutCompleted, apperr.Store(MsgLogoutFailed, err)
	}
	if err := s.sessions.RevokeSession(ctx, p.SessionKey, s.SessionRevocationTTL()); err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("revoke_session").Inc()
		return LogoutCompleted, apperr.Store(MsgLogoutFailed, err)
	}
	if ident == nil {
		s.log.Info("logout: session already expired", zap.String("jti", p.JTI))
		metrics.RecordAuth(telemetrydomain.EventLogout, true)
		return LogoutAlreadyInvalid, nil
	}
	if err := s.sessions.Forget(ctx, p.SessionKey); err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("forget").Inc()
		return LogoutCompleted, apperr.Store(MsgLogoutFailed, err)
	}
	metrics.RecordAuth(telemetrydomain.EventLogout, true)
	s.emit(telemetrydomain.EventLogout, ident.ID, nil)
	return LogoutCompleted, nil
}

// Deactivate clears the caller's is_active flag. Repeating it succeeds. The presented token
// keeps working until it expires or is logged out.
func (s *AuthService) Deactivate(ctx context.Context, p sessiondomain.Principal) error {
	ident, err := s.identity(ctx, p)
	if err != nil {
		return err
	}
	if err := s.users.Deactivate(ctx, ident.ID, s.now().UTC()); err != nil {
		return apperr.Store(MsgGenericErrorLower, err)
	}
	s.emit(telemetrydomain.EventUserDeactivated, ident.ID, nil)
	return nil
}

// ChangePassword replaces the caller's password after checking the old one. Existing
// tokens stay valid.
func (s *AuthService) ChangePassword(ctx context.Context, p sessiondomain.Principal, oldPassword, newPassword string) error {
	if oldPassword == newPassword {
		return apperr.Validation(MsgPasswordSame)
	}
	if newPassword == "" {
		return apperr.Validation(MsgPasswordRequired)
	}
	ident, err := s.identity(ctx, p)
	if err != nil {
		return err
	}
	u, err := s.users.GetActiveByID(ctx, ident.ID)
	if err != nil {
		return apperr.Store(MsgGenericError, err)
	}
	if u == nil {
		return apperr.NotFound(MsgUserNotFound)
	}
	if err := s.hasher.Compare(u.Password, []byte(oldPassword)); err != nil {
		metrics.RecordAuth(telemetrydomain.EventPasswordChanged, false)
		return apperr.Auth(MsgInvalidOldPassword)
	}
	hash, err := s.hasher.Hash([]byte(newPassword))
	if err != nil {
		return apperr.Store(MsgGenericError, err)
	}
	if err := s.users.UpdatePassword(ctx, u.ID, hash, s.now().UTC()); err != nil {
		return apperr.Store(MsgGenericError, err)
	}
	metrics.RecordAuth(telemetrydomain.EventPasswordChanged, true)
	s.emit(telemetrydomain.EventPasswordChanged, u.ID, nil)
	return nil
}

// DeleteUser soft-deletes the caller. Existing tokens stay valid.
func (s *AuthService) DeleteUser(ctx context.Context, p sessiondomain.Principal) error {
	ident, err := s.identity(ctx, p)
	if err != nil {
		return err
	}
	u, err := s.users.GetActiveByID(ctx, ident.ID)
	if err != nil {
		return apperr.Store(MsgGenericErrorLower, err)
	}
	if u == nil {
		return apperr.NotFound(MsgUserNotFound)
	}
	if err := s.users.MarkDeleted(ctx, u.ID, s.now().UTC()); err != nil {
		return apperr.Store(MsgGenericErrorLower, err)
	}
	s.emit(telemetrydomain.EventUserDeleted, u.ID, nil)
	return nil
}

// UpdateUser applies the non-empty fields of patch to the caller's profile and refreshes
// the cached identity.
func (s *AuthService) UpdateUser(ctx context.Context, p sessiondomain.Principal, patch userdomain.Patch) error {
	if patch.EmailID != nil {
		email := normalizeEmail(*patch.EmailID)
		patch.EmailID = &email
	}
	if problems := patch.Validate(); len(problems) > 0 {
		return apperr.Invalid(problems...)
	}
	ident, err := s.identity(ctx, p)
	if err != nil {
		return err
	}
	u, err := s.users.GetActiveByID(ctx, ident.ID)
	if err != nil {
		return apperr.Store(MsgGenericError, err)
	}
	if u == nil {
		return apperr.NotFound(MsgUserNotFound)
	}
	patch.Apply(u, s.now().UTC())
	if err := s.users.UpdateProfile(ctx, u); err != nil {
		if db.IsUniqueViolation(err) {
			return apperr.Validation(MsgEmailRegistered)
		}
		return apperr.Store(MsgGenericError, err)
	}

	refreshed := sessiondomain.NewIdentity(ident.SessionKey, u)
	refreshed.LastLogin = ident.LastLogin
	if err := s.sessions.PutIdentity(ctx, refreshed, s.sessionTTL); err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("put_identity").Inc()
		s.log.Warn("update user: refresh cached identity", zap.String("user_id", u.ID), zap.Error(err))
	}
	s.emit(telemetrydomain.EventUserUpdated, u.ID, nil)
	return nil
}

// Refresh issues a new access token for the session named by a valid, unrevoked refresh
// token whose identity is still cached, and extends the cached identity's lifetime.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	claims, err := s.tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Auth(MsgInvalidRefreshToken)
	}
	revoked, err := s.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("is_revoked").Inc()
		return nil, apperr.Store(MsgGenericError, err)
	}
	if !revoked {
		revoked, err = s.sessions.IsSessionRevoked(ctx, claims.Subject)
		if err != nil {
			metrics.SessionCacheErrorsTotal.WithLabelValues("is_session_revoked").Inc()
			return nil, apperr.Store(MsgGenericError, err)
		}
	}
	if revoked {
		return nil, apperr.Auth(MsgInvalidRefreshToken)
	}
	ident, err := s.sessions.GetIdentity(ctx, claims.Subject)
	if err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("get_identity").Inc()
		return nil, apperr.Store(MsgGenericError, err)
	}
	if ident == nil {
		return nil, apperr.Auth(MsgSessionExpired)
	}
	access, err := s.tokens.IssueAccess(claims.Subject, false)
	if err != nil {
		return nil, apperr.Store(MsgGenericError, err)
	}
	if err := s.sessions.PutIdentity(ctx, ident, s.sessionTTL); err != nil {
		s.log.Warn("refresh: extend cached identity", zap.Error(err))
	}
	metrics.RecordAuth(telemetrydomain.EventTokenRefreshed, true)
	s.emit(telemetrydomain.EventTokenRefreshed, ident.ID, nil)
	return &RefreshResult{AccessToken: access.Value, ExpiresAt: access.ExpiresAt}, nil
}

// SessionRevocationTTL is how long a logged-out session stays revoked. It covers an identity
// re-cached by a concurrent Refresh plus the last access token that Refresh issued.
func (s *AuthService) SessionRevocationTTL() time.Duration {
	return s.sessionTTL + s.tokens.AccessTTL()
}

// Me returns the caller's cached identity without the session key.
func (s *AuthService) Me(ctx context.Context, p sessiondomain.Principal) (*sessiondomain.Identity, error) {
	ident, err := s.identity(ctx, p)
	if err != nil {
		return nil, err
	}
	pub := ident.Public()
	return &pub, nil
}

// identity resolves the cached identity for p. A missing entry is an auth failure.
func (s *AuthService) identity(ctx context.Context, p sessiondomain.Principal) (*sessiondomain.Identity, error) {
	ident, err := s.sessions.GetIdentity(ctx, p.SessionKey)
	if err != nil {
		metrics.SessionCacheErrorsTotal.WithLabelValues("get_identity").Inc()
		return nil, apperr.Store(MsgGenericError, err)
	}
	if ident == nil {
		return nil, apperr.Auth(MsgSessionExpired)
	}
	return ident, nil
}

func (s *AuthService) emit(eventType, userID string, md map[string]string) {
	telemetry.EmitAsync(s.emitter, telemetrydomain.NewEvent(eventType, userID, md), s.log)
}

// dummy returns a hash compared against when the user does not exist, so both failure
// paths pay for one bcrypt comparison.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash([]byte(dummyPasswordForTiming))
		if err != nil {
			s.log.Warn("login: dummy hash", zap.Error(err))
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// newHexID returns a random UUID as 32 hex characters.
func newHexID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
