package domain

import (
	"time"

	userdomain "movie-booking-admin/backend/internal/user/domain"
)

// LastLoginLayout is how last_login is rendered in identities and login responses.
const LastLoginLayout = "2006-01-02 15:04:05"

// Identity is the profile snapshot cached under a session key at login. The session
// key doubles as the token subject.
type Identity struct {
	SessionKey string `json:"r_key,omitempty"`
	ID         string `json:"id"`
	EmailID    string `json:"email_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
	IsActive   bool   `json:"is_active"`
	IsDeleted  bool   `json:"is_deleted"`
	IsVerified bool   `json:"is_verified"`
	// LastLogin is the login before the one that created this identity; empty on first login.
	LastLogin string `json:"last_login"`
}

// NewIdentity snapshots u under sessionKey. It must be called before u.LastLogin is overwritten.
func NewIdentity(sessionKey string, u *userdomain.User) *Identity {
	id := &Identity{
		SessionKey: sessionKey,
		ID:         u.ID,
		EmailID:    u.EmailID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Phone:      u.PhoneValue(),
		IsActive:   u.IsActive,
		IsDeleted:  u.IsDeleted,
		IsVerified: u.EmailVerified,
	}
	if u.LastLogin != nil {
		id.LastLogin = FormatLastLogin(*u.LastLogin)
	}
	return id
}

// FormatLastLogin renders t in UTC using LastLoginLayout.
func FormatLastLogin(t time.Time) string {
	return t.UTC().Format(LastLoginLayout)
}

// Public returns a copy without the session key, safe to send to the client.
func (i *Identity) Public() Identity {
	c := *i
	c.SessionKey = ""
	return c
}
