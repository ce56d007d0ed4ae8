package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrorLogEntry is an append-only record of a failed operation
type ErrorLogEntry struct {
	ID        uint      `gorm:"primarykey" json:"-"` // insertion order
	EntryID   string    `gorm:"type:uuid;uniqueIndex;not null" json:"id"`
	Timestamp time.Time `gorm:"not null;index:idx_error_log_timestamp" json:"timestamp"`
	SessionID string    `gorm:"index" json:"sessionId,omitempty"`

	Operation    string `gorm:"not null;index" json:"operation"`
	ErrorName    string `gorm:"not null" json:"errorName"`
	ErrorMessage string `gorm:"type:text" json:"errorMessage"`
	StackTrace   string `gorm:"type:text" json:"stackTrace,omitempty"`

	Context           string `gorm:"type:text" json:"context,omitempty"`           // JSON encoded
	ClientEnvironment string `gorm:"type:text" json:"clientEnvironment,omitempty"` // JSON encoded
}

// BeforeCreate generates UUID
func (e *ErrorLogEntry) BeforeCreate(tx *gorm.DB) error {
	if e.EntryID == "" {
		e.EntryID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of log entries (append-only)
func (e *ErrorLogEntry) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// TableName specifies the table name
func (ErrorLogEntry) TableName() string {
	return "error_logs"
}
