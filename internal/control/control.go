// Package control issues enable, disable, start and stop requests to the
// systemd manager and runs the per-unit queries (journal, dependencies,
// properties and unit file contents).
package control

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/trly/unitctl/internal/fs"
	"github.com/trly/unitctl/internal/log"
	"github.com/trly/unitctl/internal/systemd"
	"github.com/trly/unitctl/internal/unit"
	"github.com/trly/unitctl/internal/validate"
)

// DefaultJobMode fails a start or stop that conflicts with a queued job.
const DefaultJobMode = "fail"

// jobDone is the job result systemd reports on success.
const jobDone = "done"

var (
	// ErrInvalidUnitName is returned for names that cannot address a unit.
	ErrInvalidUnitName = errors.New("invalid unit name")
	// ErrMasked is returned when enabling a masked unit.
	ErrMasked = errors.New("unit is masked")
	// ErrJobTimeout is returned when a queued job did not finish in time.
	ErrJobTimeout = errors.New("timed out waiting for job")
)

// Options configures a Client.
type Options struct {
	DBusTimeout    time.Duration
	CommandTimeout time.Duration
	JobMode        string
	Clock          clock.Clock
}

// Client talks to the manager over D-Bus and through the command line tools.
type Client struct {
	factory   systemd.ConnectionFactory
	systemctl *systemd.Systemctl
	files     *fs.Service
	opts      Options
	logger    log.Logger
}

// New creates a Client. Zero options fall back to defaults.
func New(factory systemd.ConnectionFactory, systemctl *systemd.Systemctl, opts Options, logger log.Logger) *Client {
	if opts.JobMode == "" {
		opts.JobMode = DefaultJobMode
	}
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Client{factory: factory, systemctl: systemctl, files: fs.NewService(logger), opts: opts, logger: logger}
}

func bound(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func validateName(op, name string, scope unit.Scope) error {
	if err := validate.UnitName(name); err != nil {
		return &systemd.Error{Op: op, Unit: name, Scope: scope, Kind: systemd.KindCall, Err: fmt.Errorf("%w: %w", ErrInvalidUnitName, err)}
	}
	if _, err := unit.ParseType(name); err != nil {
		return &systemd.Error{Op: op, Unit: name, Scope: scope, Kind: systemd.KindCall, Err: fmt.Errorf("%w: %w", ErrInvalidUnitName, err)}
	}
	return nil
}

// withConn opens a bus connection for scope, bounded by the D-Bus timeout.
func (c *Client) withConn(ctx context.Context, op, name string, scope unit.Scope, fn func(context.Context, systemd.Connection) error) error {
	if err := validateName(op, name, scope); err != nil {
		return err
	}
	ctx, cancel := bound(ctx, c.opts.DBusTimeout)
	defer cancel()

	conn, err := c.factory.NewConnection(ctx, scope)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	return fn(ctx, conn)
}

// Enable enables the unit file. It reports true when the unit was already
// enabled and nothing changed.
func (c *Client) Enable(ctx context.Context, name string, scope unit.Scope) (bool, error) {
	var already bool
	err := c.withConn(ctx, "enable", name, scope, func(ctx context.Context, conn systemd.Connection) error {
		installInfo, changes, err := conn.EnableUnitFiles(ctx, []string{name}, false, true)
		if err != nil {
			return systemd.NewError("enable", name, scope, err)
		}
		already = installInfo && len(changes) == 0
		c.logger.Debug("Enabled unit", "unit", name, "scope", scope, "changes", len(changes), "alreadyEnabled", already)
		return nil
	})
	return already, err
}

// EnableUnit enables u, refusing masked units before touching the bus.
func (c *Client) EnableUnit(ctx context.Context, u unit.Unit) (bool, error) {
	if u.State == unit.StateMasked {
		return false, &systemd.Error{Op: "enable", Unit: u.Name, Scope: u.Scope, Kind: systemd.KindRejected, Err: ErrMasked}
	}
	return c.Enable(ctx, u.Name, u.Scope)
}

// Disable disables the unit file. It reports true when the unit was already
// disabled and nothing changed.
func (c *Client) Disable(ctx context.Context, name string, scope unit.Scope) (bool, error) {
	var already bool
	err := c.withConn(ctx, "disable", name, scope, func(ctx context.Context, conn systemd.Connection) error {
		changes, err := conn.DisableUnitFiles(ctx, []string{name}, false)
		if err != nil {
			return systemd.NewError("disable", name, scope, err)
		}
		already = len(changes) == 0
		c.logger.Debug("Disabled unit", "unit", name, "scope", scope, "changes", len(changes), "alreadyDisabled", already)
		return nil
	})
	return already, err
}

// Start queues a start job and waits for its result.
func (c *Client) Start(ctx context.Context, name string, scope unit.Scope) error {
	return c.withConn(ctx, "start", name, scope, func(ctx context.Context, conn systemd.Connection) error {
		ch, err := conn.StartUnit(ctx, name, c.opts.JobMode)
		if err != nil {
			return systemd.NewError("start", name, scope, err)
		}
		return c.waitJob(ctx, "start", name, scope, ch)
	})
}

// Stop queues a stop job and waits for its result.
func (c *Client) Stop(ctx context.Context, name string, scope unit.Scope) error {
	return c.withConn(ctx, "stop", name, scope, func(ctx context.Context, conn systemd.Connection) error {
		ch, err := conn.StopUnit(ctx, name, c.opts.JobMode)
		if err != nil {
			return systemd.NewError("stop", name, scope, err)
		}
		return c.waitJob(ctx, "stop", name, scope, ch)
	})
}

func (c *Client) waitJob(ctx context.Context, op, name string, scope unit.Scope, ch <-chan string) error {
	var timeout <-chan time.Time
	if c.opts.DBusTimeout > 0 {
		timer := c.opts.Clock.Timer(c.opts.DBusTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case result := <-ch:
		if result != jobDone {
			return &systemd.Error{Op: op, Unit: name, Scope: scope, Kind: systemd.KindJob, Err: fmt.Errorf("job result %q", result)}
		}
		c.logger.Debug("Job finished", "op", op, "unit", name, "scope", scope)
		return nil
	case <-timeout:
		return &systemd.Error{Op: op, Unit: name, Scope: scope, Kind: systemd.KindTimeout, Err: ErrJobTimeout}
	case <-ctx.Done():
		return systemd.NewError(op, name, scope, ctx.Err())
	}
}

// Reload asks the manager of scope to reload its configuration.
func (c *Client) Reload(ctx context.Context, scope unit.Scope) error {
	ctx, cancel := bound(ctx, c.opts.DBusTimeout)
	defer cancel()

	conn, err := c.factory.NewConnection(ctx, scope)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	if err := conn.Reload(ctx); err != nil {
		return systemd.NewError("reload", "", scope, err)
	}
	return nil
}
