package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionItem is one key/value pair of a browser session's storage.
// A session has at most one row per key.
type SessionItem struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SessionID string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_item_key" json:"session_id"`
	Key       string    `gorm:"column:item_key;type:varchar(64);not null;uniqueIndex:idx_session_item_key" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName specifies the table name for SessionItem model
func (SessionItem) TableName() string {
	return "session_items"
}

// BeforeCreate generates UUID
func (s *SessionItem) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// IsExpired checks if the item has expired at now
func (s *SessionItem) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
