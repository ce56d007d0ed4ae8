package jobs

import (
	"context"
	"log"
	"time"

	"poster_app_go/services"

	"github.com/robfig/cron/v3"
)

// CleanupSchedule runs the session cleanup at the top of every hour
const CleanupSchedule = "0 * * * *"

// StartScheduler registers the maintenance jobs and starts the cron runner.
// Exported documents older than documentTTL are removed with the session rows.
// The returned runner must be stopped on shutdown.
func StartScheduler(store services.KeyValueStore, storage services.StorageProvider, documentTTL time.Duration) (*cron.Cron, error) {
	c := cron.New()

	_, err := c.AddFunc(CleanupSchedule, func() {
		log.Println("[CRON] Running expired session cleanup...")
		ctx := context.Background()
		CleanupExpiredSessions(ctx, store)
		CleanupExpiredDocuments(ctx, storage, documentTTL)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Println("[CRON] Scheduler started.")
	return c, nil
}

// CleanupExpiredSessions deletes session items past their expiry
func CleanupExpiredSessions(ctx context.Context, store services.KeyValueStore) int64 {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	n, err := store.DeleteExpired(ctx)
	if err != nil {
		log.Printf("[CRON] Error cleaning up expired session items: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("[CRON] Removed %d expired session items", n)
	}
	return n
}

// CleanupExpiredDocuments deletes exported posters written more than maxAge ago
func CleanupExpiredDocuments(ctx context.Context, storage services.StorageProvider, maxAge time.Duration) int {
	if storage == nil || maxAge <= 0 {
		return 0
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	n, err := storage.DeleteOlderThan(ctx, services.PosterDocumentRoot, time.Now().Add(-maxAge))
	if err != nil {
		log.Printf("[CRON] Error cleaning up expired poster documents (%d removed): %v", n, err)
		return n
	}
	if n > 0 {
		log.Printf("[CRON] Removed %d expired poster documents", n)
	}
	return n
}
