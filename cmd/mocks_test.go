package cmd

import (
	"context"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/coreos/go-systemd/v22/dbus"

	"github.com/trly/unitctl/internal/systemd"
	"github.com/trly/unitctl/internal/testutil"
	"github.com/trly/unitctl/internal/testutil/fakerunner"
)

// fixtureFiles is the unit file list the mock bus reports.
func fixtureFiles() []dbus.UnitFile {
	return []dbus.UnitFile{
		{Path: "/usr/lib/systemd/system/sshd.service", Type: "enabled"},
		{Path: "/usr/lib/systemd/system/sshd@.service", Type: "disabled"},
		{Path: "/usr/lib/systemd/system/cups.socket", Type: "disabled"},
		{Path: "/etc/systemd/system/backup.timer", Type: "enabled"},
		{Path: "/usr/lib/systemd/system/bluetooth.service", Type: "masked"},
		{Path: "/etc/systemd/system/custom.service", Type: "disabled"},
	}
}

// fixtureActive answers is-active for fixtureFiles in listing order.
const fixtureActive = "active\ninactive\ninactive\nactive\ninactive\ninactive\n"

func fixtureIsActiveArgs(user bool) []string {
	args := []string{"is-active", "--", "sshd.service", "sshd@.service", "cups.socket", "backup.timer", "bluetooth.service", "custom.service"}
	if user {
		return append([]string{"--user"}, args...)
	}
	return args
}

// AppBuilder provides a fluent interface for building test Apps.
type AppBuilder struct {
	opts    []testutil.ConfigOption
	runner  *fakerunner.Runner
	conn    *systemd.MockConnection
	factory systemd.ConnectionFactory
	clock   clock.Clock
}

// NewAppBuilder creates a new AppBuilder whose bus lists the fixture units.
func NewAppBuilder(t *testing.T) *AppBuilder {
	t.Helper()
	runner := fakerunner.New()
	runner.SetOutput("systemctl", fixtureIsActiveArgs(false), []byte(fixtureActive))
	runner.SetOutput("systemctl", fixtureIsActiveArgs(true), []byte(fixtureActive))

	return &AppBuilder{
		runner: runner,
		conn: &systemd.MockConnection{
			ListUnitFilesFunc: func(context.Context) ([]dbus.UnitFile, error) {
				return fixtureFiles(), nil
			},
		},
		clock: clock.NewMock(),
	}
}

func (b *AppBuilder) WithConfig(opts ...testutil.ConfigOption) *AppBuilder {
	b.opts = append(b.opts, opts...)
	return b
}

func (b *AppBuilder) WithConnection(configure func(conn *systemd.MockConnection)) *AppBuilder {
	configure(b.conn)
	return b
}

func (b *AppBuilder) WithConnectionFactory(f systemd.ConnectionFactory) *AppBuilder {
	b.factory = f
	return b
}

func (b *AppBuilder) Runner() *fakerunner.Runner {
	return b.runner
}

func (b *AppBuilder) Build(t *testing.T) *App {
	t.Helper()
	factory := b.factory
	if factory == nil {
		factory = &systemd.MockConnectionFactory{Connection: b.conn}
	}
	return newApp(testutil.NewTestLogger(t), testutil.NewMockConfig(t, b.opts...), b.runner, factory, b.clock)
}
