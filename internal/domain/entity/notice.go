package entity

import "time"

// Notice is a transient, auto-expiring message shown after an action
type Notice struct {
	ID        string     `json:"id"`
	Kind      NoticeKind `json:"kind"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Expired reports whether the notice should no longer be displayed
func (n Notice) Expired(now time.Time) bool {
	return !now.Before(n.ExpiresAt)
}
