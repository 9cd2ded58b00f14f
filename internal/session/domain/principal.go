package domain

import "time"

// Principal is the caller resolved from a verified access token.
type Principal struct {
	// SessionKey is the token subject; it indexes the cached Identity.
	SessionKey string
	JTI        string
	ExpiresAt  time.Time
}
