package models

import (
	"time"
)

// Session is the anonymous handle scoping a user's calculations and chat
// history. It carries no identity beyond its UUID.
type Session struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"session_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`
}

// Expired reports whether the session has passed its expiry at the given time.
// A session is valid strictly before ExpiresAt.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
