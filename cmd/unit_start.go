package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// StartCommand represents the start command.
type StartCommand struct{}

// NewStartCommand creates a new StartCommand.
func NewStartCommand() *StartCommand {
	return &StartCommand{}
}

// GetCobraCommand returns the cobra command for starting a unit.
func (c *StartCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("start UNIT", "Start a unit",
		"Queue a start job for the unit and wait for it to finish.", c.Run)
}

// Run executes the start command with injected dependencies.
func (c *StartCommand) Run(ctx context.Context, app *App, deps UnitDeps, w io.Writer, name string) error {
	return setActive(ctx, app, deps, w, name, true)
}

// StopCommand represents the stop command.
type StopCommand struct{}

// NewStopCommand creates a new StopCommand.
func NewStopCommand() *StopCommand {
	return &StopCommand{}
}

// GetCobraCommand returns the cobra command for stopping a unit.
func (c *StopCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("stop UNIT", "Stop a unit",
		"Queue a stop job for the unit and wait for it to finish.", c.Run)
}

// Run executes the stop command with injected dependencies.
func (c *StopCommand) Run(ctx context.Context, app *App, deps UnitDeps, w io.Writer, name string) error {
	return setActive(ctx, app, deps, w, name, false)
}

func setActive(ctx context.Context, app *App, deps UnitDeps, w io.Writer, name string, active bool) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	scope := app.Scope()
	action, verb := "start", "Started"
	apply := app.Manager.Start
	if !active {
		action, verb = "stop", "Stopped"
		apply = app.Manager.Stop
	}

	started := deps.Clock.Now()
	if err := apply(ctx, name, scope); err != nil {
		return fmt.Errorf("failed to %s %s: %w", action, name, err)
	}
	deps.Logger.Debug("Job finished", "action", action, "unit", name, "scope", scope, "elapsed", deps.Clock.Since(started))

	return printResult(w, app, OperationResult{
		Unit:    name,
		Scope:   scope.String(),
		Action:  action,
		Changed: true,
		Active:  &active,
		Message: fmt.Sprintf("%s %s", verb, name),
	})
}
