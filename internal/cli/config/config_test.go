package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bembelbots/BembelSoccer-sub000/internal/demo"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(oldWd) })
}

func TestLoad(t *testing.T) {
	// Test loading with no config file (should use defaults)
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 2*time.Second, cfg.Kernel.ShutdownTimeout)
	assert.Equal(t, time.Millisecond, cfg.Kernel.SnoopWait)
	assert.True(t, cfg.Kernel.LockOSThread)
	assert.Equal(t, -1, cfg.Kernel.RunLimit)
	assert.Equal(t, "development", cfg.Logging.Mode)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1000, cfg.LogData.Capacity)
	assert.Equal(t, 4, cfg.Tasks.Workers)
	assert.False(t, cfg.Introspect.Enabled)
	assert.Equal(t, ":8090", cfg.Introspect.Addr)
	assert.Equal(t, demo.DefaultConfig(), cfg.Demo)

	assert.Len(t, cfg.KernelOptions(), 6)
}

func TestLoadWithConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	configContent := `
kernel:
  shutdown_timeout: 500ms
  run_limit: 10
  lock_os_thread: false
logging:
  mode: production
  level: debug
tasks:
  workers: 8
introspect:
  enabled: true
  addr: 127.0.0.1:9000
`
	require.NoError(t, os.WriteFile("rt.yaml", []byte(configContent), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Kernel.ShutdownTimeout)
	assert.Equal(t, 10, cfg.Kernel.RunLimit)
	assert.False(t, cfg.Kernel.LockOSThread)
	assert.Equal(t, "production", cfg.Logging.Mode)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 8, cfg.Tasks.Workers)
	assert.True(t, cfg.Introspect.Enabled)
	assert.Equal(t, "127.0.0.1:9000", cfg.Introspect.Addr)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "robot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logdata:\n  capacity: 64\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.LogData.Capacity)
}

func TestLoadMissingExplicitPath(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("RT_KERNEL_RUN_LIMIT", "3")
	t.Setenv("RT_LOGGING_MODE", "nop")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Kernel.RunLimit)
	assert.Equal(t, "nop", cfg.Logging.Mode)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"zero timeout", "kernel:\n  shutdown_timeout: 0s\n", "kernel.shutdown_timeout"},
		{"negative snoop wait", "kernel:\n  snoop_wait: -1ms\n", "kernel.snoop_wait"},
		{"zero capacity", "logdata:\n  capacity: 0\n", "logdata.capacity"},
		{"no workers", "tasks:\n  workers: 0\n", "tasks.workers"},
		{"enabled without addr", "introspect:\n  enabled: true\n  addr: \"\"\n", "introspect.addr"},
		{"empty frame", "demo:\n  frame_width: 0\n", "frame size"},
		{"negative period", "demo:\n  period: -5ms\n", "demo.period"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "rt.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
