package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnvFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.env")
	second := filepath.Join(dir, "second.env")
	require.NoError(t, os.WriteFile(first, []byte("DESKCALC_TEST_A=one\nDESKCALC_TEST_B=first\n"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("DESKCALC_TEST_B=second\n"), 0o600))

	t.Setenv(envFilesVar, first+", "+filepath.Join(dir, "missing.env")+","+second)
	t.Setenv("DESKCALC_TEST_A", "")
	os.Unsetenv("DESKCALC_TEST_A")
	t.Setenv("DESKCALC_TEST_B", "")
	os.Unsetenv("DESKCALC_TEST_B")

	require.NoError(t, loadDotEnv())

	assert.Equal(t, "one", os.Getenv("DESKCALC_TEST_A"))
	// The first file to set a variable wins.
	assert.Equal(t, "first", os.Getenv("DESKCALC_TEST_B"))
}

func TestLoadDotEnvMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.env")
	require.NoError(t, os.WriteFile(path, []byte("DESKCALC_TEST_C=\"unterminated\n"), 0o600))
	t.Setenv(envFilesVar, path)

	err := loadDotEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.env")
}
