package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// UnitDeps holds dependencies of the single-unit commands.
type UnitDeps struct {
	CommonDeps
}

func buildUnitDeps(app *App) UnitDeps {
	return UnitDeps{CommonDeps: NewRootDeps(app)}
}

// refreshScope loads the units of the configured scope so that names can be
// resolved.
func refreshScope(ctx context.Context, app *App) error {
	if err := app.Registries.For(app.Scope()).Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load %s units: %w", app.Scope(), err)
	}
	return nil
}

// printResult prints res as structured output or as its message.
func printResult(w io.Writer, app *App, res OperationResult) error {
	if isStructured(app.Config.OutputFormat) {
		return PrintOutput(w, app.Config.OutputFormat, res)
	}
	_, err := fmt.Fprintln(w, res.Message)
	return err
}

// unitRunFunc is the Run method shape of the single-unit commands.
type unitRunFunc func(ctx context.Context, app *App, deps UnitDeps, w io.Writer, name string) error

// newUnitCobraCommand wires a single-unit command to the App in the context.
func newUnitCobraCommand(use, short, long string, run unitRunFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), app, buildUnitDeps(app), cmd.OutOrStdout(), args[0])
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
