// Package cmd provides the command line interface for unitctl
package cmd

import (
	"github.com/benbjohnson/clock"

	"github.com/trly/unitctl/internal/analyze"
	"github.com/trly/unitctl/internal/catalog"
	"github.com/trly/unitctl/internal/config"
	"github.com/trly/unitctl/internal/control"
	"github.com/trly/unitctl/internal/execx"
	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/registry"
	"github.com/trly/unitctl/internal/systemd"
	"github.com/trly/unitctl/internal/unit"
)

type contextKey string

const appContextKey contextKey = "app"

// App holds the application dependencies for command line interface.
type App struct {
	Logger         log.Logger
	Config         *config.Settings
	ConfigProvider config.Provider
	Runner         execx.Runner
	Connections    systemd.ConnectionFactory
	Systemctl      *systemd.Systemctl
	Control        *control.Client
	Registries     *registry.Set
	Manager        *registry.Manager
	Analyzer       *analyze.Analyzer
	Clock          clock.Clock
}

// NewApp creates a new App talking to the real systemd manager.
func NewApp(logger log.Logger, configProv config.Provider) *App {
	return newApp(logger, configProv, execx.NewRealRunner(), systemd.NewConnectionFactory(logger), clock.New())
}

func newApp(logger log.Logger, configProv config.Provider, runner execx.Runner, conns systemd.ConnectionFactory, clk clock.Clock) *App {
	cfg := configProv.GetConfig()

	sc := systemd.NewSystemctl(runner, systemd.Paths{
		Systemctl:  cfg.SystemctlPath,
		Journalctl: cfg.JournalctlPath,
		Analyze:    cfg.AnalyzePath,
	}, logger)

	var source catalog.Source
	listTimeout := cfg.DBusTimeout
	if cfg.Transport == config.TransportSystemctl {
		source = catalog.NewSystemctlSource(sc, logger)
		listTimeout = cfg.CommandTimeout
	} else {
		source = catalog.NewDBusSource(conns, logger)
	}
	units := catalog.New(source, sc, catalog.Timeouts{List: listTimeout, Active: cfg.CommandTimeout}, logger)

	ctl := control.New(conns, sc, control.Options{
		DBusTimeout:    cfg.DBusTimeout,
		CommandTimeout: cfg.CommandTimeout,
		JobMode:        cfg.JobMode,
		Clock:          clk,
	}, logger)

	set := registry.NewSet(units, logger)

	return &App{
		Logger:         logger,
		Config:         cfg,
		ConfigProvider: configProv,
		Runner:         runner,
		Connections:    conns,
		Systemctl:      sc,
		Control:        ctl,
		Registries:     set,
		Manager:        registry.NewManager(set, ctl, logger),
		Analyzer:       analyze.New(sc, cfg.CommandTimeout, logger),
		Clock:          clk,
	}
}

// Scope returns the scope selected by the configuration.
func (a *App) Scope() unit.Scope {
	return unit.ScopeFor(a.Config.UserMode)
}

// Policy returns the togglable filter selected by the configuration.
func (a *App) Policy() catalog.Policy {
	return catalog.Policy{
		ExcludeVendorServices: a.Config.ExcludeVendorServices,
		VendorPrefix:          a.Config.VendorPathPrefix,
	}
}
