package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir moves the test into dir so Load picks up (or misses) its .env, and
// resets viper's global state afterwards.
func chdir(t *testing.T, dir string) {
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(old)
		viper.Reset()
	})
}

func TestLoad_DefaultsWithoutEnvFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DefaultConversionRate, cfg.ConversionRate)
}

func TestLoad_MalformedEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT 9090\n"), 0o600))
	chdir(t, dir)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RateFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONVERSION_RATE", "3.5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3.5, cfg.ConversionRate)
}
