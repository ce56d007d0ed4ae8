package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage := NewLocalStorage(tempDir)
	ctx := context.Background()
	content := "%PDF-1.3 poster"
	key := "posters/s1/doc.pdf"
	size := int64(len(content))

	t.Run("UploadReader creates file", func(t *testing.T) {
		result, err := storage.UploadReader(ctx, strings.NewReader(content), key, "application/pdf", size)
		require.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, "doc.pdf", result.FileName)
		assert.Equal(t, size, result.FileSize)

		_, err = os.Stat(filepath.Join(tempDir, key))
		assert.NoError(t, err)
	})

	t.Run("Get retrieves file content", func(t *testing.T) {
		reader, retrievedType, err := storage.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		got, _ := io.ReadAll(reader)
		assert.Equal(t, content, string(got))
		assert.Equal(t, "application/pdf", retrievedType)
	})

	t.Run("Get detects image MIME types", func(t *testing.T) {
		_, err := storage.UploadReader(ctx, strings.NewReader("<svg/>"), "img/a.svg", "image/svg+xml", 6)
		require.NoError(t, err)
		reader, retrievedType, err := storage.Get(ctx, "img/a.svg")
		require.NoError(t, err)
		reader.Close()
		assert.Equal(t, "image/svg+xml", retrievedType)

		_, err = storage.UploadReader(ctx, strings.NewReader("x"), "img/a.bin", "", 1)
		require.NoError(t, err)
		reader, retrievedType, err = storage.Get(ctx, "img/a.bin")
		require.NoError(t, err)
		reader.Close()
		assert.Equal(t, "application/octet-stream", retrievedType)
	})

	t.Run("Get missing file fails", func(t *testing.T) {
		_, _, err := storage.Get(ctx, "posters/none.pdf")
		assert.Error(t, err)
	})

	t.Run("Delete removes file", func(t *testing.T) {
		assert.NoError(t, storage.Delete(ctx, key))
		_, err := os.Stat(filepath.Join(tempDir, key))
		assert.True(t, os.IsNotExist(err))

		// deleting twice is not an error
		assert.NoError(t, storage.Delete(ctx, key))
	})

}

func TestLocalStorageDeleteOlderThan(t *testing.T) {
	tempDir := t.TempDir()
	storage := NewLocalStorage(tempDir)
	ctx := context.Background()

	for _, key := range []string{"posters/s1/old.pdf", "posters/s2/old.pdf", "posters/s2/new.pdf", "other/old.pdf"} {
		_, err := storage.UploadReader(ctx, strings.NewReader("%PDF"), key, "application/pdf", 4)
		require.NoError(t, err)
	}
	stale := time.Now().Add(-48 * time.Hour)
	for _, key := range []string{"posters/s1/old.pdf", "posters/s2/old.pdf", "other/old.pdf"} {
		require.NoError(t, os.Chtimes(filepath.Join(tempDir, key), stale, stale))
	}

	n, err := storage.DeleteOlderThan(ctx, PosterDocumentRoot, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = os.Stat(filepath.Join(tempDir, "posters/s2/new.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(tempDir, "posters/s1/old.pdf"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(tempDir, "other/old.pdf"))
	assert.NoError(t, err, "files outside the prefix are kept")

	n, err = storage.DeleteOlderThan(ctx, "missing", time.Now())
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestKeyGeneration(t *testing.T) {
	t.Run("GenerateStorageKey", func(t *testing.T) {
		key := GenerateStorageKey("prefix", "poster.pdf")
		assert.True(t, strings.HasPrefix(key, "prefix/"))
		assert.True(t, strings.HasSuffix(key, ".pdf"))
		parts := strings.Split(filepath.Base(key), "_")
		assert.Len(t, parts, 2)
	})

	t.Run("GeneratePosterDocumentKey", func(t *testing.T) {
		key := GeneratePosterDocumentKey("session-1")
		assert.True(t, strings.HasPrefix(key, "posters/session-1/"))
		assert.True(t, strings.HasSuffix(key, ".pdf"))
		assert.NotEqual(t, key, GeneratePosterDocumentKey("session-1"))
	})
}
