package models

import "time"

// Session binds a signed cookie to a user. The cookie carries ID; revoking
// or expiring the row ends the session server-side.
type Session struct {
	ID          string     `gorm:"primaryKey;size:64"`
	UserID      string     `gorm:"index;size:50;not null"`
	ExpiresAt   time.Time  `gorm:"index;not null"`
	RevokedAt   *time.Time `gorm:"index"`
	CreatedByIP string     `gorm:"size:64"`
	UserAgent   string     `gorm:"size:255"`
	CreatedAt   time.Time
}

func (Session) TableName() string { return "sessions" }

// Active reports whether the session can still authenticate requests.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
