package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		level   zapcore.Level
		wantErr string
	}{
		{name: "defaults", cfg: Config{}, level: zapcore.InfoLevel},
		{name: "development debug", cfg: Config{Mode: "development", Level: "debug"}, level: zapcore.DebugLevel},
		{name: "production warn", cfg: Config{Mode: "Production", Level: "WARN"}, level: zapcore.WarnLevel},
		{name: "bad level", cfg: Config{Level: "loud"}, wantErr: "invalid log level"},
		{name: "bad mode", cfg: Config{Mode: "syslog"}, wantErr: "unknown log mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.cfg)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.level))
			assert.False(t, logger.Core().Enabled(tt.level-1))
		})
	}
}

func TestNew_Nop(t *testing.T) {
	logger, err := New(Config{Mode: "nop"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.FatalLevel))
}

func TestMust(t *testing.T) {
	logger := Must(Config{Mode: "bogus"})
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
