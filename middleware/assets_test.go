package middleware

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeFileHash(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "poster.css")
	require.NoError(t, os.WriteFile(tmpFile, []byte("body { color: red; }"), 0644))

	hash := computeFileHash(tmpFile)
	assert.Len(t, hash, 8)
	assert.Equal(t, hash, computeFileHash(tmpFile), "stable for unchanged content")

	assert.Empty(t, computeFileHash("non_existent_file.css"))
}

func TestAssetVersionsNeverEmpty(t *testing.T) {
	ctx := context.Background()
	InitAssetVersions()
	assert.NotEmpty(t, GetCSSVersion(ctx))
	assert.NotEmpty(t, GetAppJSVersion(ctx))
}
