package analyze

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/systemd"
	"github.com/trly/unitctl/internal/testutil/fakerunner"
	"github.com/trly/unitctl/internal/unit"
)

func TestParseBlameLine(t *testing.T) {
	tests := []struct {
		line   string
		unit   string
		millis int64
	}{
		{"3min 38.514s updatedb.service", "updatedb.service", 218514},
		{"15.443s openntpd.service", "openntpd.service", 15443},
		{"1989ms systemd-sysctl.service", "systemd-sysctl.service", 1989},
		{"  812us sys-kernel-config.mount", "sys-kernel-config.mount", 0},
		{"1h 2min foo.service", "foo.service", 3720000},
	}

	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			b, err := parseBlameLine(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.unit, b.Unit)
			assert.Equal(t, tt.millis, b.Millis())
		})
	}

	_, err := parseBlameLine("")
	assert.ErrorIs(t, err, unit.ErrParse)
}

func TestParseBlame(t *testing.T) {
	out := "15.443s openntpd.service\n1989ms systemd-sysctl.service\n"

	got, err := ParseBlame(out)
	require.NoError(t, err)
	assert.Equal(t, []Blame{
		{Unit: "systemd-sysctl.service", Time: 1989 * time.Millisecond},
		{Unit: "openntpd.service", Time: 15443 * time.Millisecond},
	}, got)

	empty, err := ParseBlame("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = ParseBlame("1s a.service\n\n2s b.service\n")
	assert.ErrorIs(t, err, unit.ErrMalformedReply)
}

func TestParseTimes(t *testing.T) {
	got := ParseTimes("Startup finished in 7.621s (kernel) + 23.949s (userspace) = 31.571s\n")
	assert.Equal(t, Times{Kernel: "7.621s", Userspace: "23.949s", Total: "31.571s"}, got)

	withFirmware := ParseTimes("Startup finished in 3.1s (firmware) + 1.2s (loader) + 2.5s (kernel) + 9.8s (userspace) = 16.6s")
	assert.Equal(t, Times{Kernel: "2.5s", Userspace: "9.8s", Total: "16.6s"}, withFirmware)

	missing := ParseTimes("Bootup is not yet finished.")
	assert.Equal(t, Times{Kernel: NotAvailable, Userspace: NotAvailable, Total: NotAvailable}, missing)
	assert.Equal(t, "kernel N/A, userspace N/A, total N/A", missing.String())
}

func TestAnalyzer(t *testing.T) {
	runner := fakerunner.New()
	runner.SetOutput("systemd-analyze", []string{"--user", "blame"}, []byte("120ms pipewire.service\n"))
	runner.SetError("systemd-analyze", []string{"time"}, errors.New("exit status 1"))

	a := New(systemd.NewSystemctl(runner, systemd.Paths{}, log.Nop()), time.Minute, log.Nop())

	blames, err := a.Blame(context.Background(), unit.ScopeUser)
	require.NoError(t, err)
	assert.Equal(t, []Blame{{Unit: "pipewire.service", Time: 120 * time.Millisecond}}, blames)

	times, err := a.Time(context.Background(), unit.ScopeSystem)
	assert.ErrorIs(t, err, systemd.ErrTransport)
	assert.Equal(t, NotAvailable, times.Total)
}
