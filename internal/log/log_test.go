package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{name: "default logging level", opts: Options{}},
		{name: "verbose logging level", opts: Options{Verbose: true}},
		{name: "json records", opts: Options{JSON: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Init(tt.opts)
			assert.NotNil(t, GetLogger())
		})
	}
}

func TestGetLogger_ReturnsInitializedInstance(t *testing.T) {
	Init(Options{})
	first := GetLogger()
	assert.Same(t, first, GetLogger())
}

func TestNewLoggerWithWriter_Levels(t *testing.T) {
	t.Run("quiet logger drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, false)

		logger.Debug("hidden", "unit", "sshd.service")
		logger.Warn("shown", "unit", "sshd.service")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
		assert.Contains(t, buf.String(), "unit=sshd.service")
	})

	t.Run("verbose logger keeps debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLoggerWithWriter(&buf, true)

		logger.Debug("enumerating", "scope", "user")

		assert.Contains(t, buf.String(), "enumerating")
		assert.Contains(t, buf.String(), "scope=user")
	})
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{JSON: true, Writer: &buf})

	logger.Warn("refresh failed", "scope", "user")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "WARN", record["level"])
	assert.Equal(t, "refresh failed", record["msg"])
	assert.Equal(t, "user", record["scope"])
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	base := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil))).(*SlogAdapter)

	base.With("scope", "system").Info("refreshed")

	assert.Contains(t, buf.String(), "scope=system")
	assert.Contains(t, buf.String(), "refreshed")
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.NotPanics(t, func() {
		logger.Error("nothing to see")
	})
}
