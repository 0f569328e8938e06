package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// SaveOptions holds save command options.
type SaveOptions struct {
	From string
}

// SaveCommand represents the save command.
type SaveCommand struct{}

// NewSaveCommand creates a new SaveCommand.
func NewSaveCommand() *SaveCommand {
	return &SaveCommand{}
}

// GetCobraCommand returns the cobra command for replacing a unit file.
func (c *SaveCommand) GetCobraCommand() *cobra.Command {
	var opts SaveOptions

	saveCmd := &cobra.Command{
		Use:   "save UNIT --from FILE",
		Short: "Replace the unit file of a unit and reload the manager",
		Long: `Replace the file backing a unit with the contents of FILE and reload the
service manager. The file is written atomically and keeps its permissions.`,
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
	saveCmd.Flags().StringVar(&opts.From, "from", "", "File holding the new unit file contents")
	_ = saveCmd.MarkFlagRequired("from")

	return saveCmd
}

// Run executes the save command with injected dependencies.
func (c *SaveCommand) Run(ctx context.Context, app *App, opts SaveOptions, deps UnitDeps, w io.Writer, name string) error {
	if opts.From == "" {
		return errors.New("--from is required")
	}
	info, err := deps.FileSystem.Stat(opts.From)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.From, err)
	}
	if info.IsDir() {
		return fmt.Errorf("failed to read %s: is a directory", opts.From)
	}
	content, err := deps.FileSystem.ReadFile(opts.From)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.From, err)
	}

	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	scope := app.Scope()
	path, changed, err := app.Manager.SaveUnitFile(ctx, name, string(content), scope)
	if err != nil {
		return fmt.Errorf("failed to save unit file of %s: %w", name, err)
	}

	msg := fmt.Sprintf("Saved %s and reloaded the %s manager", path, scope)
	if !changed {
		msg = fmt.Sprintf("%s is unchanged, reloaded the %s manager", path, scope)
	}

	return printResult(w, app, OperationResult{
		Unit:    name,
		Scope:   scope.String(),
		Action:  "save",
		Changed: changed,
		Path:    path,
		Message: msg,
	})
}
