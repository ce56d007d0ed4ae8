package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"poster_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyValueStore is a session-scoped string store. Values expire after the
// store's TTL unless rewritten.
type KeyValueStore interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error) // val, found, err
	Set(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID string, keys ...string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// GormKeyValueStore keeps session items in the session_items table
type GormKeyValueStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

var _ KeyValueStore = (*GormKeyValueStore)(nil)

// DefaultSessionTTL applies when a store is created without a positive TTL
const DefaultSessionTTL = 24 * time.Hour

// NewGormKeyValueStore creates a store backed by database
func NewGormKeyValueStore(database *gorm.DB, ttl time.Duration) *GormKeyValueStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &GormKeyValueStore{db: database, ttl: ttl, now: time.Now}
}

func (s *GormKeyValueStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var item models.SessionItem
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND item_key = ?", sessionID, key).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session item: %w", err)
	}
	if item.IsExpired(s.now()) {
		return "", false, nil
	}
	return item.Value, true, nil
}

func (s *GormKeyValueStore) Set(ctx context.Context, sessionID, key, value string) error {
	item := models.SessionItem{
		SessionID: sessionID,
		Key:       key,
		Value:     value,
		ExpiresAt: s.now().Add(s.ttl),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&item).Error
	if err != nil {
		return fmt.Errorf("failed to write session item: %w", err)
	}
	return nil
}

func (s *GormKeyValueStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("session_id = ? AND item_key IN ?", sessionID, keys).
		Delete(&models.SessionItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete session items: %w", err)
	}
	return nil
}

// DeleteExpired removes every item whose expiry has passed
func (s *GormKeyValueStore) DeleteExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now()).
		Delete(&models.SessionItem{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete expired session items: %w", result.Error)
	}
	return result.RowsAffected, nil
}
