package services

import (
	"context"
	"testing"

	"poster_app_go/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique shared memory name isolates tests
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(&models.SessionItem{}, &models.ErrorLogEntry{}))
	return testDB
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

// memoryKeyValueStore is a map-backed KeyValueStore for tests that don't care about the backend
type memoryKeyValueStore struct {
	items map[string]string
	err   error
}

func newMemoryKeyValueStore() *memoryKeyValueStore {
	return &memoryKeyValueStore{items: make(map[string]string)}
}

func (m *memoryKeyValueStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	if m.err != nil {
		return "", false, m.err
	}
	v, ok := m.items[sessionID+"/"+key]
	return v, ok, nil
}

func (m *memoryKeyValueStore) Set(ctx context.Context, sessionID, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.items[sessionID+"/"+key] = value
	return nil
}

func (m *memoryKeyValueStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	for _, k := range keys {
		delete(m.items, sessionID+"/"+k)
	}
	return nil
}

func (m *memoryKeyValueStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}
