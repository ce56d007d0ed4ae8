package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"

	"poster_app_go/middleware"
	"poster_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestErrorLogHandlers(t *testing.T) {
	env := newTestEnv(t, "")
	env.errorLog.Record(services.WithSessionID(context.Background(), env.sessionID), services.OperationExportPoster,
		&services.ExportError{Stage: "store", Err: errors.New("disk full")},
		map[string]any{"printSize": "a4"})
	env.errorLog.Record(services.WithSessionID(context.Background(), "someone-else"), services.OperationGeneratePoster,
		&services.GenerationError{Err: errors.New("other visitor")},
		map[string]any{"imageUrl": "https://img.example/other.png"})

	t.Run("Text", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/errors/log", nil, false)
		require.NoError(t, ErrorLogTextHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=poster_error_log_")
		assert.Contains(t, rec.Body.String(), "(1 entries)")
		assert.Contains(t, rec.Body.String(), "disk full")
		assert.NotContains(t, rec.Body.String(), "other visitor")
		assert.NotContains(t, rec.Body.String(), "other.png")
	})

	t.Run("OtherSessionSeesNothingOfThis", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/errors/log", nil, false)
		c.Set(middleware.ContextKeySessionID, "third-visitor")
		require.NoError(t, ErrorLogTextHandler(c))
		assert.Contains(t, rec.Body.String(), "(0 entries)")
		assert.NotContains(t, rec.Body.String(), "disk full")
	})

	t.Run("Workbook", func(t *testing.T) {
		c, rec := env.request(http.MethodGet, "/errors/log.xlsx", nil, false)
		require.NoError(t, ErrorLogWorkbookHandler(c))
		assert.Equal(t, http.StatusOK, rec.Code)

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("ErrorLog")
		require.NoError(t, err)
		assert.Len(t, rows, 2)
	})
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t, "")
	c, rec := env.request(http.MethodGet, "/healthz", nil, false)
	require.NoError(t, HealthHandler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
