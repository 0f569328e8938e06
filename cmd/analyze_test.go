package cmd

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unitctl/internal/analyze"
	"github.com/trly/unitctl/internal/config"
	"github.com/trly/unitctl/internal/testutil"
)

func TestAnalyzeBlame_JSON(t *testing.T) {
	b := NewAppBuilder(t).WithConfig(testutil.WithOutputFormat(config.OutputJSON))
	b.Runner().SetOutput("systemd-analyze", []string{"blame"}, []byte("      2s sshd.service\n  1.5s cups.socket\n"))
	app := b.Build(t)

	out, err := ExecuteCommandWithCapture(t, newTestRoot(app), []string{"analyze", "blame"})
	require.NoError(t, err)

	var rows []BlameRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Equal(t, []BlameRow{
		{Unit: "cups.socket", Millis: 1500},
		{Unit: "sshd.service", Millis: 2000},
	}, rows)
}

func TestAnalyzeBlame_Table(t *testing.T) {
	b := NewAppBuilder(t)
	b.Runner().SetOutput("systemd-analyze", []string{"--user", "blame"}, []byte("1min 3.2s dbus.service\n"))
	app := b.Build(t)

	AssertCommandOutput(t, newTestRoot(app), []string{"--user", "analyze", "blame"}, "Time (ms)", "dbus.service", "63200")
}

func TestAnalyzeBlame_Error(t *testing.T) {
	b := NewAppBuilder(t)
	b.Runner().SetError("systemd-analyze", []string{"blame"}, errors.New("exit status 1"))
	app := b.Build(t)

	AssertCommandFailure(t, newTestRoot(app), []string{"analyze", "blame"}, "failed to analyze startup")
}

func TestAnalyzeTime(t *testing.T) {
	b := NewAppBuilder(t).WithConfig(testutil.WithOutputFormat(config.OutputJSON))
	b.Runner().SetOutput("systemd-analyze", []string{"time"},
		[]byte("Startup finished in 1.2s (kernel) + 3.4s (userspace) = 4.6s\ngraphical.target reached after 3.3s in userspace.\n"))
	app := b.Build(t)

	out, err := ExecuteCommandWithCapture(t, newTestRoot(app), []string{"analyze", "time"})
	require.NoError(t, err)

	var times analyze.Times
	require.NoError(t, json.Unmarshal([]byte(out), &times))
	assert.Equal(t, analyze.Times{Kernel: "1.2s", Userspace: "3.4s", Total: "4.6s"}, times)
}

func TestAnalyzeTime_NotAvailable(t *testing.T) {
	b := NewAppBuilder(t)
	b.Runner().SetError("systemd-analyze", []string{"time"}, errors.New("bootup is not yet finished"))
	app := b.Build(t)

	out, err := ExecuteCommandWithCapture(t, newTestRoot(app), []string{"analyze", "time"})
	require.NoError(t, err)
	assert.Contains(t, out, "kernel")
	assert.Contains(t, out, analyze.NotAvailable)
}
