package models

import "time"

// Session is the server-side record binding a client to an authenticated
// identity. The client only ever holds the opaque (signed) session id.
type Session struct {
	ID        string
	UserID    int64
	Email     string
	Name      string
	Admin     bool
	Perso     bool
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the session's absolute lifetime has elapsed.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
