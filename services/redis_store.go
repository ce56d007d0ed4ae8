package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"poster_app_go/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrorLogKey is the redis list holding the durable error log
const ErrorLogKey = "posterErrorLog"

const sessionKeyPrefix = "poster:session:"

// RedisConf holds the connection settings of a redis backend
type RedisConf struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects to redis and pings it
func NewRedisClient(ctx context.Context, conf RedisConf) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Printf("[INFO] redis connection established (%s:%d db=%d)", conf.Host, conf.Port, conf.DB)
	return client, nil
}

// RedisKeyValueStore keeps each session as one hash whose TTL is refreshed on write
type RedisKeyValueStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ KeyValueStore = (*RedisKeyValueStore)(nil)

func NewRedisKeyValueStore(client *redis.Client, ttl time.Duration) *RedisKeyValueStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisKeyValueStore{client: client, ttl: ttl}
}

func (s *RedisKeyValueStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	val, err := s.client.HGet(ctx, sessionKeyPrefix+sessionID, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil // key or field missing
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read session item: %w", err)
	}
	return val, true, nil
}

func (s *RedisKeyValueStore) Set(ctx context.Context, sessionID, key, value string) error {
	hashKey := sessionKeyPrefix + sessionID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, hashKey, key, value)
		pipe.Expire(ctx, hashKey, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write session item: %w", err)
	}
	return nil
}

func (s *RedisKeyValueStore) Delete(ctx context.Context, sessionID string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := s.client.HDel(ctx, sessionKeyPrefix+sessionID, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete session items: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op; redis expires session hashes itself
func (s *RedisKeyValueStore) DeleteExpired(ctx context.Context) (int64, error) {
	return 0, nil
}

// RedisErrorLogRepository keeps the error log as a capped redis list
type RedisErrorLogRepository struct {
	client   *redis.Client
	key      string
	capacity int64
}

var _ ErrorLogRepository = (*RedisErrorLogRepository)(nil)

func NewRedisErrorLogRepository(client *redis.Client, capacity int) *RedisErrorLogRepository {
	return &RedisErrorLogRepository{client: client, key: ErrorLogKey, capacity: int64(capacity)}
}

// Append pushes entry to the tail and trims the list to the newest capacity entries
func (r *RedisErrorLogRepository) Append(ctx context.Context, entry *models.ErrorLogEntry) error {
	if entry.EntryID == "" {
		entry.EntryID = uuid.New().String()
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode error log entry: %w", err)
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, r.key, payload)
		pipe.LTrim(ctx, r.key, -r.capacity, -1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to append error log entry: %w", err)
	}
	return nil
}

func (r *RedisErrorLogRepository) List(ctx context.Context) ([]models.ErrorLogEntry, error) {
	raw, err := r.client.LRange(ctx, r.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list error log: %w", err)
	}
	entries := make([]models.ErrorLogEntry, 0, len(raw))
	for i, item := range raw {
		var entry models.ErrorLogEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			log.Printf("[WARNING] error log: skipping undecodable entry %d: %v", i, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
