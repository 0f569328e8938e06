package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// StatusCommand represents the status command.
type StatusCommand struct{}

// NewStatusCommand creates a new StatusCommand.
func NewStatusCommand() *StatusCommand {
	return &StatusCommand{}
}

// GetCobraCommand returns the cobra command for re-reading whether a unit runs.
func (c *StatusCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("status UNIT", "Show whether a unit is running",
		`Ask systemctl status whether the unit is running. A status that cannot be
read is reported as inactive.`, c.Run)
}

// Run executes the status command with injected dependencies.
func (c *StatusCommand) Run(ctx context.Context, app *App, deps UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	scope := app.Scope()
	before, err := app.Registries.For(scope).Get(name)
	if err != nil {
		return fmt.Errorf("failed to read status of %s: %w", name, err)
	}
	u, err := app.Manager.RefreshActive(ctx, name, scope)
	if err != nil {
		return fmt.Errorf("failed to read status of %s: %w", name, err)
	}
	deps.Logger.Debug("Read unit status", "unit", name, "scope", scope, "active", u.Active)

	word := "inactive"
	if u.Active {
		word = "active"
	}
	active := u.Active
	return printResult(w, app, OperationResult{
		Unit:    name,
		Scope:   scope.String(),
		Action:  "status",
		Changed: before.Active != u.Active,
		State:   u.State.String(),
		Active:  &active,
		Message: fmt.Sprintf("%s is %s (%s)", name, word, u.State),
	})
}
