package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TELEBIND_ENV_TEST_A=from-file\nTELEBIND_ENV_TEST_B=from-file\n"), 0o600))

	t.Setenv("TELEBIND_ENV_TEST_B", "from-env")
	// Unset A so the file value is visible; t.Setenv restores it afterwards.
	t.Setenv("TELEBIND_ENV_TEST_A", "")
	require.NoError(t, os.Unsetenv("TELEBIND_ENV_TEST_A"))

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, "from-file", os.Getenv("TELEBIND_ENV_TEST_A"))
	assert.Equal(t, "from-env", os.Getenv("TELEBIND_ENV_TEST_B"))
}

func TestLoadEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "absent.env")))
}
