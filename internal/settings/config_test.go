package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  addr: ":9090"
queue:
  capacity: 3
logger:
  log_level: debug
  file_log_name: logs/queue.log
worker:
  queue_name: letters
  poll_interval: 50ms
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 3, cfg.Queue.Capacity)
	assert.Equal(t, "debug", cfg.Logger.LogLevel)
	assert.Equal(t, "logs/queue.log", cfg.Logger.FileLogName)
	assert.Equal(t, 3, cfg.Logger.MaxBackups, "unset fields keep defaults")
	assert.Equal(t, "letters", cfg.Worker.QueueName)
	assert.Equal(t, 50*time.Millisecond, cfg.Worker.PollInterval)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("queue: [1, 2"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero capacity", func(c *Config) { c.Queue.Capacity = 0 }},
		{"unknown level", func(c *Config) { c.Logger.LogLevel = "loud" }},
		{"missing addr", func(c *Config) { c.Server.Addr = "" }},
		{"bad queue url", func(c *Config) { c.Worker.QueueURL = "not a url" }},
		{"zero poll interval", func(c *Config) { c.Worker.PollInterval = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), "invalid config")
		})
	}
}
