package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Session is the persisted record backing an issued bearer token. A row
// exists iff the exact token was issued here and has not been revoked;
// logout deletes the row, which is what actually invalidates the token
// before its own expiry claim runs out.
type Session struct {
	SessionID string    `gorm:"column:session_id;type:uuid;primaryKey"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;index"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.SessionID == "" {
		s.SessionID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the session row itself has outlived its lifetime.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
