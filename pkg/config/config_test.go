package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "graph.bin", cfg.Graph.Path)
	assert.Equal(t, runtime.NumCPU(), cfg.Graph.Engines)
	assert.Equal(t, 500.0, cfg.Graph.SnapRadiusMeters)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, runtime.NumCPU()*2, cfg.Server.MaxConcurrent)
	assert.Zero(t, cfg.Server.RateLimit)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapdist.yaml")
	data := `
graph:
  path: /data/singapore.bin.bz2
  engines: 3
server:
  addr: 127.0.0.1:9000
  request_timeout: 250ms
  rate_limit: 20
  rate_burst: 5
  cors_origins:
    - https://example.com
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/data/singapore.bin.bz2", cfg.Graph.Path)
	assert.Equal(t, 3, cfg.Graph.Engines)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Server.RequestTimeout)
	assert.Equal(t, 20.0, cfg.Server.RateLimit)
	assert.Equal(t, 5, cfg.Server.RateBurst)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapdist.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: :7000\n"), 0o644))

	t.Setenv("MAPDIST_SERVER_ADDR", ":9999")
	t.Setenv("MAPDIST_GRAPH_ENGINES", "7")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 7, cfg.Graph.Engines)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("MAPDIST_GRAPH_ENGINES", "0")

	_, err := Load("")
	assert.ErrorContains(t, err, "graph.engines")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty graph path", func(c *Config) { c.Graph.Path = "" }, "graph.path"},
		{"negative snap radius", func(c *Config) { c.Graph.SnapRadiusMeters = -1 }, "snap_radius_meters"},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"no concurrency", func(c *Config) { c.Server.MaxConcurrent = 0 }, "max_concurrent"},
		{"negative rate", func(c *Config) { c.Server.RateLimit = -1 }, "rate_limit"},
		{"rate without burst", func(c *Config) { c.Server.RateLimit = 1; c.Server.RateBurst = 0 }, "rate_burst"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
	assert.NoError(t, Default().Validate())
}
