package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"poster_app_go/models"

	"gorm.io/gorm"
)

// OperationGeneratePoster labels error log entries written by the generation client
const OperationGeneratePoster = "generatePoster"

// OperationExportPoster labels error log entries written by the export pipeline
const OperationExportPoster = "exportPoster"

// ClientEnvironment describes the client that triggered a logged operation
type ClientEnvironment struct {
	UserAgent  string `json:"userAgent,omitempty"`
	Language   string `json:"language,omitempty"`
	RemoteAddr string `json:"remoteAddr,omitempty"`
	URL        string `json:"url,omitempty"`
	Adapter    string `json:"adapter,omitempty"`
}

type clientEnvironmentKey struct{}

type sessionIDKey struct{}

// WithSessionID returns a context whose error log entries belong to sessionID
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

// SessionIDFrom returns the session set by WithSessionID, empty if absent
func SessionIDFrom(ctx context.Context) string {
	sessionID, _ := ctx.Value(sessionIDKey{}).(string)
	return sessionID
}

// WithClientEnvironment returns a context carrying env for the error log
func WithClientEnvironment(ctx context.Context, env ClientEnvironment) context.Context {
	return context.WithValue(ctx, clientEnvironmentKey{}, env)
}

// ClientEnvironmentFrom extracts the client environment, zero value if absent
func ClientEnvironmentFrom(ctx context.Context) ClientEnvironment {
	if env, ok := ctx.Value(clientEnvironmentKey{}).(ClientEnvironment); ok {
		return env
	}
	return ClientEnvironment{}
}

// ErrorLogRepository is the durable, capped list behind the error log
type ErrorLogRepository interface {
	Append(ctx context.Context, entry *models.ErrorLogEntry) error
	// List returns entries oldest first
	List(ctx context.Context) ([]models.ErrorLogEntry, error)
}

// ErrorLogSink records failed operations in memory and in a durable repository
type ErrorLogSink struct {
	repo     ErrorLogRepository
	capacity int
	now      func() time.Time

	mu      sync.Mutex
	entries []models.ErrorLogEntry
}

// NewErrorLogSink creates a sink; repo may be nil for an in-memory only log
func NewErrorLogSink(repo ErrorLogRepository, capacity int) *ErrorLogSink {
	if capacity <= 0 {
		capacity = 100
	}
	return &ErrorLogSink{repo: repo, capacity: capacity, now: time.Now}
}

// Record appends an entry for err. Persistence failures go to the diagnostic log only.
func (s *ErrorLogSink) Record(ctx context.Context, operation string, err error, details map[string]any) models.ErrorLogEntry {
	entry := models.ErrorLogEntry{
		Timestamp:    s.now().UTC(),
		SessionID:    SessionIDFrom(ctx),
		Operation:    operation,
		ErrorName:    ErrorName(err),
		ErrorMessage: errorMessage(err),
		StackTrace:   string(debug.Stack()),
	}
	if len(details) > 0 {
		if b, jerr := json.Marshal(details); jerr == nil {
			entry.Context = string(b)
		} else {
			log.Printf("[WARNING] error log: failed to encode context: %v", jerr)
		}
	}
	if b, jerr := json.Marshal(ClientEnvironmentFrom(ctx)); jerr == nil {
		entry.ClientEnvironment = string(b)
	}

	if s.repo != nil {
		if perr := s.repo.Append(ctx, &entry); perr != nil {
			log.Printf("[WARNING] error log: failed to persist entry for %s: %v", operation, perr)
		}
	}

	s.mu.Lock()
	s.entries = append(s.entries, entry)
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = append([]models.ErrorLogEntry(nil), s.entries[over:]...)
	}
	s.mu.Unlock()

	log.Printf("[ERROR] %s: %s: %s", operation, entry.ErrorName, entry.ErrorMessage)
	return entry
}

// Recent returns the in-memory entries of this process, oldest first
func (s *ErrorLogSink) Recent() []models.ErrorLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ErrorLogEntry(nil), s.entries...)
}

// Entries returns the durable log, falling back to memory when no repository is set
func (s *ErrorLogSink) Entries(ctx context.Context) ([]models.ErrorLogEntry, error) {
	if s.repo == nil {
		return s.Recent(), nil
	}
	return s.repo.List(ctx)
}

// EntriesForSession returns the entries recorded for sessionID. The capacity
// applies to the whole log, so a session sees at most that many.
func (s *ErrorLogSink) EntriesForSession(ctx context.Context, sessionID string) ([]models.ErrorLogEntry, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	own := entries[:0:0]
	for _, e := range entries {
		if sessionID != "" && e.SessionID == sessionID {
			own = append(own, e)
		}
	}
	return own, nil
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// CombinedText renders entries as a human-readable log
func CombinedText(entries []models.ErrorLogEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Poster Studio error log (%d entries)\n", len(entries))
	for i, e := range entries {
		b.WriteString("\n")
		fmt.Fprintf(&b, "=== #%d %s ===\n", i+1, e.Timestamp.Format(time.RFC3339))
		fmt.Fprintf(&b, "Operation: %s\n", e.Operation)
		fmt.Fprintf(&b, "Error: %s: %s\n", e.ErrorName, e.ErrorMessage)
		if e.Context != "" {
			fmt.Fprintf(&b, "Context: %s\n", e.Context)
		}
		if e.ClientEnvironment != "" {
			fmt.Fprintf(&b, "Client: %s\n", e.ClientEnvironment)
		}
		if e.StackTrace != "" {
			b.WriteString("Stack:\n")
			b.WriteString(strings.TrimRight(e.StackTrace, "\n"))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// GormErrorLogRepository stores the error log in the error_logs table
type GormErrorLogRepository struct {
	db       *gorm.DB
	capacity int
}

var _ ErrorLogRepository = (*GormErrorLogRepository)(nil)

// NewGormErrorLogRepository creates a repository keeping the newest capacity entries
func NewGormErrorLogRepository(database *gorm.DB, capacity int) *GormErrorLogRepository {
	return &GormErrorLogRepository{db: database, capacity: capacity}
}

// Append inserts entry and evicts everything older than the newest capacity rows
func (r *GormErrorLogRepository) Append(ctx context.Context, entry *models.ErrorLogEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to insert error log entry: %w", err)
		}
		newest := tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.ErrorLogEntry{}).
			Select("id").
			Order("id DESC").
			Limit(r.capacity)
		if err := tx.Where("id NOT IN (?)", newest).Delete(&models.ErrorLogEntry{}).Error; err != nil {
			return fmt.Errorf("failed to trim error log: %w", err)
		}
		return nil
	})
}

func (r *GormErrorLogRepository) List(ctx context.Context) ([]models.ErrorLogEntry, error) {
	var entries []models.ErrorLogEntry
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list error log: %w", err)
	}
	return entries, nil
}
