package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestConfigs(t *testing.T) {
	t.Run("default is console on stdout", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "console", cfg.Format)
		assert.Equal(t, "stdout", cfg.Output)
		assert.NotEmpty(t, cfg.TimeFormat)
	})

	t.Run("production switches to json", func(t *testing.T) {
		cfg := ProductionConfig()
		assert.Equal(t, "json", cfg.Format)
		assert.Equal(t, "stdout", cfg.Output)
	})
}

func TestNew(t *testing.T) {
	cases := []struct {
		name string
		cfg  *Config
	}{
		{"default config", DefaultConfig()},
		{"production config", ProductionConfig()},
		{"debug console", &Config{Level: "debug", Format: "console", Output: "stderr", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
		{"json format", &Config{Level: "warn", Format: "json", Output: "stdout", TimeFormat: "2006-01-02T15:04:05Z07:00"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			logger, err := New(tc.cfg)
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNewForEnvironment(t *testing.T) {
	for _, env := range []string{"development", "production", "staging"} {
		t.Run(env, func(t *testing.T) {
			logger, err := NewForEnvironment(env)
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func TestZapLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"fatal":   zapcore.FatalLevel,
		"bogus":   zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for level, want := range cases {
		cfg := &Config{Level: level}
		assert.Equal(t, want, cfg.zapLevel(), "level %q", level)
	}
}

func TestFileSink(t *testing.T) {
	t.Run("writes to a file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "service.log")
		cfg := &Config{Level: "info", Format: "json", Output: path, TimeFormat: "2006-01-02T15:04:05Z07:00"}

		logger, err := New(cfg)
		require.NoError(t, err)

		logger.Info("lot created")
		_ = Sync(logger)

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), "lot created")
	})

	t.Run("fails on an unwritable path", func(t *testing.T) {
		cfg := &Config{Level: "info", Format: "json", Output: filepath.Join(t.TempDir(), "missing", "service.log")}

		_, err := New(cfg)
		assert.Error(t, err)
	})
}
