package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, loadEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestLoadEnv_SetsVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MOMENTLINE_TEST_ENV=from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("MOMENTLINE_TEST_ENV") })

	require.NoError(t, loadEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("MOMENTLINE_TEST_ENV"))
}

func TestLoadEnv_MalformedFileIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("not a valid line!\n"), 0644))

	err := loadEnv(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load .env")
}
