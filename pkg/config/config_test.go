package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Log.Path = t.TempDir()
	return cfg
}

func newTestCommand(t *testing.T) *cobra.Command {
	t.Helper()
	def := NewDefaultConfig()
	cmd := &cobra.Command{Use: "test"}
	f := cmd.Flags()
	f.String("config", "", "")
	f.String("transport.addr", def.Transport.Addr, "")
	f.Duration("agent.interval", def.Agent.Interval, "")
	f.Int("agent.reconnect.max-attempts", def.Agent.Reconnect.MaxAttempts, "")
	f.Bool("agent.metrics.cpu", def.Agent.Metrics.CPU, "")
	f.Bool("agent.metrics.mem", def.Agent.Metrics.Mem, "")
	f.String("log.path", t.TempDir(), "")
	return cmd
}

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, validConfig(t).Validate())
}

func TestDefaultsMatchReferenceBehaviour(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, time.Second, cfg.Agent.Interval)
	assert.Equal(t, 2*time.Second, cfg.Agent.Reconnect.Backoff)
	assert.Equal(t, 1, cfg.Agent.Reconnect.MaxAttempts)
	assert.Equal(t, 4096, cfg.Collector.ReadBufferSize)
	assert.Equal(t, 512, cfg.Collector.LineBufferSize)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty addr", func(c *Config) { c.Transport.Addr = "" }},
		{"addr without port", func(c *Config) { c.Transport.Addr = "localhost" }},
		{"interval too small", func(c *Config) { c.Agent.Interval = time.Millisecond }},
		{"no metrics enabled", func(c *Config) { c.Agent.Metrics = AgentMetricsConfig{} }},
		{"zero reconnect attempts", func(c *Config) { c.Agent.Reconnect.MaxAttempts = 0 }},
		{"max backoff below backoff", func(c *Config) {
			c.Agent.Reconnect.MaxAttempts = 3
			c.Agent.Reconnect.MaxBackoff = time.Second
		}},
		{"max line below line buffer", func(c *Config) { c.Collector.MaxLineBytes = 10 }},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"bad metrics addr", func(c *Config) {
			c.Metrics.Enable = true
			c.Metrics.Addr = "nope"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLogValidateCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	l := NewDefaultConfig().Log
	l.Path = dir
	require.NoError(t, l.Validate())

	stat, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, stat.IsDir())
}

func TestLoadConfigWithCliFlags(t *testing.T) {
	cmd := newTestCommand(t)
	require.NoError(t, cmd.Flags().Parse([]string{
		"--transport.addr", "127.0.0.1:9999",
		"--agent.interval", "250ms",
	}))

	cfg, err := LoadConfigWithCli(cmd)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9999", cfg.Transport.Addr)
	assert.Equal(t, 250*time.Millisecond, cfg.Agent.Interval)
	// flags not touched keep their defaults
	assert.Equal(t, 2*time.Second, cfg.Agent.Reconnect.Backoff)
}

func TestLoadConfigWithCliEnv(t *testing.T) {
	t.Setenv("TELEMETRY_AGENT_RECONNECT_MAX_ATTEMPTS", "4")
	cmd := newTestCommand(t)
	require.NoError(t, cmd.Flags().Parse(nil))

	cfg, err := LoadConfigWithCli(cmd)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Agent.Reconnect.MaxAttempts)
}

func TestLoadConfigWithCliFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
transport:
  addr: "0.0.0.0:7070"
agent:
  interval: 3s
  metrics:
    cpu: false
`), 0o644))

	cmd := newTestCommand(t)
	require.NoError(t, cmd.Flags().Parse([]string{"--config", file}))

	cfg, err := LoadConfigWithCli(cmd)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:7070", cfg.Transport.Addr)
	assert.Equal(t, 3*time.Second, cfg.Agent.Interval)
	assert.False(t, cfg.Agent.Metrics.CPU)
	assert.True(t, cfg.Agent.Metrics.Mem)
}

func TestLoadConfigWithCliMissingFile(t *testing.T) {
	cmd := newTestCommand(t)
	require.NoError(t, cmd.Flags().Parse([]string{"--config", filepath.Join(t.TempDir(), "absent.yaml")}))

	_, err := LoadConfigWithCli(cmd)
	assert.Error(t, err)
}
