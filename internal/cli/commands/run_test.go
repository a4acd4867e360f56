package commands

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCommand_Duration(t *testing.T) {
	start := time.Now()
	out, _, err := execute(t, "run", "--no-color", "--duration", "200ms", "--config", writeConfig(t, ""))
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 200*time.Millisecond)
	// No sink without introspection, so the data logger is disabled.
	assert.Contains(t, out, "✓ Module graph compiled (7 modules)")
	assert.Contains(t, out, "Kernel running")
	assert.Regexp(t, regexp.MustCompile(`Camera\s+normal\s+stopped\s+\d+`), out)
	assert.NotContains(t, out, "DataLogger")
}

func TestRunCommand_Introspect(t *testing.T) {
	out, _, err := execute(t, "run", "--no-color", "--duration", "200ms",
		"--introspect", "--addr", "127.0.0.1:0", "--config", writeConfig(t, ""))
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Module graph compiled (8 modules)")
	assert.Contains(t, out, "Introspection API on http://127.0.0.1:")
	assert.Contains(t, out, "DataLogger")
}

func TestRunCommand_RunLimit(t *testing.T) {
	out, _, err := execute(t, "run", "--no-color", "--run-limit", "3", "--duration", "2s",
		"--config", writeConfig(t, ""))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`Camera\s+normal\s+stopped\s+3\n`), out)
	assert.Regexp(t, regexp.MustCompile(`Motion\s+normal\s+stopped\s+3\n`), out)
}

func TestRunCommand_InvalidConfig(t *testing.T) {
	t.Setenv("RT_KERNEL_SHUTDOWN_TIMEOUT", "0s")
	_, _, err := execute(t, "run", "--config", writeConfig(t, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kernel.shutdown_timeout")
}
