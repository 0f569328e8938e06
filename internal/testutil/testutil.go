// Package testutil provides loggers and configuration for tests.
package testutil

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/trly/unitctl/internal/config"
	"github.com/trly/unitctl/internal/log"
)

// NewTestLogger creates a logger that writes every record to t.Logf.
func NewTestLogger(t testing.TB) log.Logger {
	return log.NewSlogAdapter(slog.New(&testHandler{t: t}))
}

// ConfigOption customizes test settings.
type ConfigOption func(*config.Settings)

// WithVerbose sets verbose logging.
func WithVerbose(verbose bool) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.Verbose = verbose
	}
}

// WithUserMode sets user mode.
func WithUserMode(userMode bool) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.UserMode = userMode
	}
}

// WithTransport selects the enumeration transport.
func WithTransport(transport string) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.Transport = transport
	}
}

// WithOutputFormat sets the CLI output format.
func WithOutputFormat(format string) ConfigOption {
	return func(cfg *config.Settings) {
		cfg.OutputFormat = format
	}
}

// NewMockConfig returns a provider holding the default settings with opts
// applied. Nothing is read from disk or the environment.
func NewMockConfig(t testing.TB, opts ...ConfigOption) config.Provider {
	t.Helper()
	cfg := config.Defaults()
	for _, opt := range opts {
		opt(cfg)
	}

	provider := config.NewConfigProvider()
	provider.SetConfig(cfg)
	return provider
}

// testHandler implements slog.Handler on top of testing.TB.
type testHandler struct {
	t     testing.TB
	attrs []slog.Attr
}

func (h *testHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (h *testHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", record.Level, record.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s", a)
	}
	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s", a)
		return true
	})
	h.t.Logf("%s", b.String())
	return nil
}

func (h *testHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &testHandler{t: h.t, attrs: merged}
}

func (h *testHandler) WithGroup(_ string) slog.Handler {
	return h
}
