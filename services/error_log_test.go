package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"poster_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockErrorLogRepository struct {
	mock.Mock
}

func (m *mockErrorLogRepository) Append(ctx context.Context, entry *models.ErrorLogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockErrorLogRepository) List(ctx context.Context) ([]models.ErrorLogEntry, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ErrorLogEntry), args.Error(1)
}

func TestErrorLogSinkRecord(t *testing.T) {
	sink := NewErrorLogSink(nil, 100)
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	sink.now = func() time.Time { return fixed }

	ctx := WithClientEnvironment(context.Background(), ClientEnvironment{UserAgent: "test-agent", Language: "ja"})
	entry := sink.Record(ctx, OperationGeneratePoster, &GenerationError{StatusCode: 503, Status: "Service Unavailable"}, map[string]any{"printSize": "a4"})

	assert.Equal(t, fixed, entry.Timestamp)
	assert.Equal(t, OperationGeneratePoster, entry.Operation)
	assert.Equal(t, "GenerationError", entry.ErrorName)
	assert.Equal(t, "API error: 503 Service Unavailable", entry.ErrorMessage)
	assert.Contains(t, entry.StackTrace, "goroutine")
	assert.JSONEq(t, `{"printSize":"a4"}`, entry.Context)

	var env ClientEnvironment
	require.NoError(t, json.Unmarshal([]byte(entry.ClientEnvironment), &env))
	assert.Equal(t, "test-agent", env.UserAgent)
	assert.Equal(t, "ja", env.Language)
}

func TestErrorLogSinkMemoryCap(t *testing.T) {
	sink := NewErrorLogSink(nil, 100)
	for i := 1; i <= 101; i++ {
		sink.Record(context.Background(), "op", fmt.Errorf("error %d", i), nil)
	}
	recent := sink.Recent()
	require.Len(t, recent, 100)
	assert.Equal(t, "error 2", recent[0].ErrorMessage)
	assert.Equal(t, "error 101", recent[99].ErrorMessage)
}

func TestErrorLogSinkPersistenceFailureIsSwallowed(t *testing.T) {
	repo := new(mockErrorLogRepository)
	repo.On("Append", mock.Anything, mock.AnythingOfType("*models.ErrorLogEntry")).Return(errors.New("read-only"))

	sink := NewErrorLogSink(repo, 100)
	assert.NotPanics(t, func() {
		sink.Record(context.Background(), "op", errors.New("x"), nil)
	})
	assert.Len(t, sink.Recent(), 1)
	repo.AssertExpectations(t)
}

func TestErrorLogSinkEntries(t *testing.T) {
	repo := new(mockErrorLogRepository)
	stored := []models.ErrorLogEntry{{Operation: "generatePoster"}}
	repo.On("List", mock.Anything).Return(stored, nil)

	entries, err := NewErrorLogSink(repo, 100).Entries(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, stored, entries)

	memOnly := NewErrorLogSink(nil, 100)
	memOnly.Record(context.Background(), "op", errors.New("x"), nil)
	entries, err = memOnly.Entries(context.Background())
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestErrorLogSinkEntriesForSession(t *testing.T) {
	sink := NewErrorLogSink(nil, 100)
	sink.Record(WithSessionID(context.Background(), "s1"), OperationGeneratePoster, errors.New("first"), nil)
	sink.Record(WithSessionID(context.Background(), "s2"), OperationExportPoster, errors.New("second"), nil)
	sink.Record(context.Background(), "op", errors.New("unowned"), nil)

	entries, err := sink.EntriesForSession(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "first", entries[0].ErrorMessage)
	assert.Equal(t, "s1", entries[0].SessionID)

	entries, err = sink.EntriesForSession(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func assertRepositoryKeepsNewest(t *testing.T, repo ErrorLogRepository) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= 101; i++ {
		entry := &models.ErrorLogEntry{
			Timestamp:    time.Now(),
			Operation:    OperationGeneratePoster,
			ErrorName:    "GenerationError",
			ErrorMessage: fmt.Sprintf("entry #%d", i),
		}
		require.NoError(t, repo.Append(ctx, entry))
	}

	entries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 100)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("entry #%d", i+2), e.ErrorMessage)
	}
}

func TestGormErrorLogRepositoryEvictsOldest(t *testing.T) {
	repo := NewGormErrorLogRepository(setupTestDB(t), 100)
	assertRepositoryKeepsNewest(t, repo)
}

func TestRedisErrorLogRepositoryEvictsOldest(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewRedisErrorLogRepository(client, 100)
	assertRepositoryKeepsNewest(t, repo)

	list, err := mr.List(ErrorLogKey)
	require.NoError(t, err)
	assert.Len(t, list, 100)
}

func TestGormErrorLogRepositoryIsAppendOnly(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormErrorLogRepository(db, 100)
	entry := &models.ErrorLogEntry{Timestamp: time.Now(), Operation: "op", ErrorName: "E"}
	require.NoError(t, repo.Append(context.Background(), entry))
	assert.NotEmpty(t, entry.EntryID)

	err := db.Model(entry).Update("operation", "changed").Error
	assert.Error(t, err)
}

func TestCombinedText(t *testing.T) {
	entries := []models.ErrorLogEntry{
		{
			Timestamp:    time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			Operation:    OperationGeneratePoster,
			ErrorName:    "GenerationError",
			ErrorMessage: "API error: 500 Internal Server Error",
			Context:      `{"printSize":"a4"}`,
			StackTrace:   "goroutine 1 [running]:\n",
		},
		{Timestamp: time.Date(2026, 3, 1, 9, 31, 0, 0, time.UTC), Operation: "exportPoster", ErrorName: "ExportError"},
	}

	text := CombinedText(entries)
	assert.Contains(t, text, "(2 entries)")
	assert.Contains(t, text, "=== #1 2026-03-01T09:30:00Z ===")
	assert.Contains(t, text, "Operation: generatePoster")
	assert.Contains(t, text, "Error: GenerationError: API error: 500 Internal Server Error")
	assert.Contains(t, text, `Context: {"printSize":"a4"}`)
	assert.Contains(t, text, "=== #2 ")
	assert.Less(t, strings.Index(text, "#1"), strings.Index(text, "#2"))
}
