package domain

import "time"

// Auth event types.
const (
	EventSignup          = "signup"
	EventLoginSuccess    = "login_success"
	EventLoginFailure    = "login_failure"
	EventLogout          = "logout"
	EventTokenRefreshed  = "token_refreshed"
	EventPasswordChanged = "password_changed"
	EventUserDeactivated = "user_deactivated"
	EventUserDeleted     = "user_deleted"
	EventUserUpdated     = "user_updated"
)

// SourceAuthService tags events raised by the auth service.
const SourceAuthService = "auth-service"

// Event is an auth lifecycle event. It never carries session keys, tokens or passwords.
type Event struct {
	EventType string            `json:"eventType"`
	Source    string            `json:"source"`
	UserID    string            `json:"userId,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewEvent returns an event stamped with the current UTC time.
func NewEvent(eventType, userID string, metadata map[string]string) *Event {
	return &Event{
		EventType: eventType,
		Source:    SourceAuthService,
		UserID:    userID,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
}
