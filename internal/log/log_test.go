// Copyright 2021 The wasihttp Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "warn", cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, os.Stderr, cfg.Output)
}

func TestFromEnv(t *testing.T) {
	testCases := []struct {
		name   string
		env    map[string]string
		level  string
		format Format
	}{
		{
			name:   "defaults",
			level:  "warn",
			format: FormatText,
		},
		{
			name:   "level is lowered",
			env:    map[string]string{EnvLevel: "DEBUG"},
			level:  "debug",
			format: FormatText,
		},
		{
			name:   "json format",
			env:    map[string]string{EnvFormat: "JSON"},
			level:  "warn",
			format: FormatJSON,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(EnvLevel, "")
			t.Setenv(EnvFormat, "")
			for k, v := range testCase.env {
				t.Setenv(k, v)
			}
			cfg := FromEnv()
			assert.Equal(t, testCase.level, cfg.Level)
			assert.Equal(t, testCase.format, cfg.Format)
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "info", Format: FormatJSON, Output: &buf})
		logger.Debug("hidden")
		logger.Info("shown", "k", "v")
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
		assert.Equal(t, "shown", m["msg"])
		assert.Equal(t, "v", m["k"])
	})
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&Config{Level: "debug", Format: FormatText, Output: &buf})
		logger.Debug("shown")
		assert.Contains(t, buf.String(), "msg=shown")
	})
	t.Run("nil config", func(t *testing.T) {
		assert.NotNil(t, New(nil))
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
