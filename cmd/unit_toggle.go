package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trly/unitctl/internal/unit"
)

// ToggleOptions holds toggle command options.
type ToggleOptions struct {
	Active bool
}

// ToggleCommand represents the toggle command.
type ToggleCommand struct{}

// NewToggleCommand creates a new ToggleCommand.
func NewToggleCommand() *ToggleCommand {
	return &ToggleCommand{}
}

// GetCobraCommand returns the cobra command for toggling a unit.
func (c *ToggleCommand) GetCobraCommand() *cobra.Command {
	var opts ToggleOptions

	toggleCmd := &cobra.Command{
		Use:   "toggle UNIT",
		Short: "Flip a unit between enabled and disabled",
		Long: `Disable an enabled unit or enable a disabled one.

With --active the unit is stopped when it is running and started otherwise.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return c.Run(cmd.Context(), app, opts, buildUnitDeps(app), cmd.OutOrStdout(), args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	toggleCmd.Flags().BoolVar(&opts.Active, "active", false, "Toggle running state instead of enablement")

	return toggleCmd
}

// Run executes the toggle command with injected dependencies.
func (c *ToggleCommand) Run(ctx context.Context, app *App, opts ToggleOptions, deps UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	scope := app.Scope()

	if opts.Active {
		u, err := app.Manager.ToggleActive(ctx, name, scope)
		if err != nil {
			return fmt.Errorf("failed to toggle %s: %w", name, err)
		}
		deps.Logger.Debug("Toggled running state", "unit", name, "active", u.Active)
		action, verb := "stop", "Stopped"
		if u.Active {
			action, verb = "start", "Started"
		}
		return printResult(w, app, OperationResult{
			Unit:    name,
			Scope:   scope.String(),
			Action:  action,
			Changed: true,
			Active:  &u.Active,
			Message: fmt.Sprintf("%s %s", verb, name),
		})
	}

	u, err := app.Manager.ToggleEnablement(ctx, name, scope)
	if err != nil {
		return fmt.Errorf("failed to toggle %s: %w", name, err)
	}
	deps.Logger.Debug("Toggled enablement", "unit", name, "state", u.State)
	action, verb := "disable", "Disabled"
	if u.State == unit.StateEnabled {
		action, verb = "enable", "Enabled"
	}
	return printResult(w, app, OperationResult{
		Unit:    name,
		Scope:   scope.String(),
		Action:  action,
		Changed: true,
		State:   u.State.String(),
		Message: fmt.Sprintf("%s %s", verb, name),
	})
}
