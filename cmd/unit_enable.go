package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trly/unitctl/internal/unit"
)

// EnableCommand represents the enable command.
type EnableCommand struct{}

// NewEnableCommand creates a new EnableCommand.
func NewEnableCommand() *EnableCommand {
	return &EnableCommand{}
}

// GetCobraCommand returns the cobra command for enabling a unit.
func (c *EnableCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("enable UNIT", "Enable a unit file",
		`Enable a unit file so it is started at boot or on its trigger.

Masked units are refused. Enabling an enabled unit is reported and is not an error.`, c.Run)
}

// Run executes the enable command with injected dependencies.
func (c *EnableCommand) Run(ctx context.Context, app *App, deps UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	scope := app.Scope()
	already, err := app.Manager.Enable(ctx, name, scope)
	if err != nil {
		return fmt.Errorf("failed to enable %s: %w", name, err)
	}
	deps.Logger.Debug("Enable finished", "unit", name, "scope", scope, "alreadyEnabled", already)

	msg := fmt.Sprintf("Enabled %s", name)
	if already {
		msg = fmt.Sprintf("%s is already enabled", name)
	}
	return printResult(w, app, OperationResult{
		Unit:    name,
		Scope:   scope.String(),
		Action:  "enable",
		Changed: !already,
		State:   unit.StateEnabled.String(),
		Message: msg,
	})
}

// DisableCommand represents the disable command.
type DisableCommand struct{}

// NewDisableCommand creates a new DisableCommand.
func NewDisableCommand() *DisableCommand {
	return &DisableCommand{}
}

// GetCobraCommand returns the cobra command for disabling a unit.
func (c *DisableCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("disable UNIT", "Disable a unit file",
		"Disable a unit file. Disabling a disabled unit is reported and is not an error.", c.Run)
}

// Run executes the disable command with injected dependencies.
func (c *DisableCommand) Run(ctx context.Context, app *App, deps UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	scope := app.Scope()
	already, err := app.Manager.Disable(ctx, name, scope)
	if err != nil {
		return fmt.Errorf("failed to disable %s: %w", name, err)
	}
	deps.Logger.Debug("Disable finished", "unit", name, "scope", scope, "alreadyDisabled", already)

	msg := fmt.Sprintf("Disabled %s", name)
	if already {
		msg = fmt.Sprintf("%s is already disabled", name)
	}
	return printResult(w, app, OperationResult{
		Unit:    name,
		Scope:   scope.String(),
		Action:  "disable",
		Changed: !already,
		State:   unit.StateDisabled.String(),
		Message: msg,
	})
}
