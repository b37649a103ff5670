package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"server_url":            "http://www.example:9000",
		"online_check_interval": "10s",
		"request_timeout":       int64(2 * time.Second),
	})

	t.Run("loads from flags", func(t *testing.T) {
		withArgs(t, "-config", pathFlag)

		cfg := defaults()
		parseJson(cfg)

		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
		assert.Equal(t, 10*time.Second, cfg.OnlineCheckInterval)
		assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
		assert.Equal(t, "127.0.0.1:50051", cfg.HealthAddr, "absent keys keep earlier values")
	})

	t.Run("short flag", func(t *testing.T) {
		withArgs(t, "-c", pathFlag)

		cfg := defaults()
		parseJson(cfg)
		assert.Equal(t, "http://www.example:9000", cfg.ServerURL)
	})

	t.Run("no flags means no changes", func(t *testing.T) {
		withArgs(t)

		cfg := defaults()
		parseJson(cfg)
		assert.Equal(t, defaults(), cfg)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		withArgs(t, "-config", bad)

		require.Panics(t, func() { parseJson(defaults()) })
	})

	t.Run("missing file panics", func(t *testing.T) {
		withArgs(t, "-config", filepath.Join(dir, "nope.json"))

		require.Panics(t, func() { parseJson(defaults()) })
	})
}
