package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	require.NoError(t, err)

	assert.Equal(t, SourceHTTP, cfg.Source)
	assert.Equal(t, "https://api.dummy.in-lotion.de", cfg.TimeAPI.BaseURL)
	assert.Equal(t, "/api/time-changes", cfg.TimeAPI.Path)
	assert.Equal(t, 10*time.Second, cfg.TimeAPI.Timeout)
	assert.Empty(t, cfg.TimeAPI.Token)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Minute, cfg.HTTP.RefreshInterval)
	assert.False(t, cfg.MySQL.Migrate)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"SOURCE":            "mysql",
		"MYSQL_DSN":         "u:p@tcp(db:3306)/t",
		"MYSQL_MIGRATE":     "true",
		"TIME_API_BASE_URL": "http://localhost:9000",
		"TIME_API_TOKEN":    "tok",
		"TIME_API_TIMEOUT":  "3s",
		"HTTP_ADDR":         "127.0.0.1:9999",
		"REFRESH_INTERVAL":  "0s",
	}))
	require.NoError(t, err)

	assert.Equal(t, SourceMySQL, cfg.Source)
	assert.True(t, cfg.MySQL.Migrate)
	assert.Equal(t, "http://localhost:9000", cfg.TimeAPI.BaseURL)
	assert.Equal(t, "tok", cfg.TimeAPI.Token)
	assert.Equal(t, 3*time.Second, cfg.TimeAPI.Timeout)
	assert.Equal(t, "127.0.0.1:9999", cfg.HTTP.Addr)
	assert.Zero(t, cfg.HTTP.RefreshInterval)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"unknown source":    {"SOURCE": "ftp"},
		"mysql without dsn": {"SOURCE": "mysql"},
		"bad timeout":       {"TIME_API_TIMEOUT": "soon"},
		"zero timeout":      {"TIME_API_TIMEOUT": "0s"},
		"bad migrate":       {"MYSQL_MIGRATE": "maybe"},
		"negative refresh":  {"REFRESH_INTERVAL": "-1m"},
	}
	for name, vars := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(env(vars))
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("TIME_API_PATH=/from-dotenv\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("TIME_API_BASE_URL", "http://from-env")
	// restore on cleanup; godotenv only fills variables that are unset
	t.Setenv("TIME_API_PATH", "")
	require.NoError(t, os.Unsetenv("TIME_API_PATH"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/from-dotenv", cfg.TimeAPI.Path)
	assert.Equal(t, "http://from-env", cfg.TimeAPI.BaseURL)
}
