package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/trly/unitctl/internal/control"
)

// JournalCommand represents the journal command.
type JournalCommand struct{}

// NewJournalCommand creates a new JournalCommand.
func NewJournalCommand() *JournalCommand {
	return &JournalCommand{}
}

// GetCobraCommand returns the cobra command for reading a unit's journal.
func (c *JournalCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("journal UNIT", "Show this boot's journal of a unit, newest first",
		"Show this boot's journal of a unit, newest entry first. When the journal cannot be read a placeholder with the cause is shown.", c.Run)
}

// Run executes the journal command with injected dependencies.
func (c *JournalCommand) Run(ctx context.Context, app *App, _ UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	journal, err := app.Manager.Journal(ctx, name, app.Scope())
	if err != nil {
		return err
	}
	if isStructured(app.Config.OutputFormat) {
		return PrintOutput(w, app.Config.OutputFormat, map[string]string{"unit": name, "journal": journal})
	}
	_, err = fmt.Fprintln(w, strings.TrimRight(journal, "\n"))
	return err
}

// DepsOptions holds deps command options.
type DepsOptions struct {
	Tree bool
}

// DepsCommand represents the deps command.
type DepsCommand struct{}

// NewDepsCommand creates a new DepsCommand.
func NewDepsCommand() *DepsCommand {
	return &DepsCommand{}
}

// GetCobraCommand returns the cobra command for listing unit dependencies.
func (c *DepsCommand) GetCobraCommand() *cobra.Command {
	var opts DepsOptions

	depsCmd := &cobra.Command{
		Use:   "deps UNIT",
		Short: "Show the dependencies of a unit",
		Args:  cobra.ExactArgs(1),
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
	depsCmd.Flags().BoolVar(&opts.Tree, "tree", false, "Parse the listing into a dependency tree")

	return depsCmd
}

// DependencyNode is one unit of a walked dependency tree.
type DependencyNode struct {
	Unit  string `json:"unit" yaml:"unit"`
	Depth int    `json:"depth" yaml:"depth"`
}

// Run executes the deps command with injected dependencies.
func (c *DepsCommand) Run(ctx context.Context, app *App, opts DepsOptions, _ UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	scope := app.Scope()

	if !opts.Tree {
		deps, err := app.Manager.Dependencies(ctx, name, scope)
		if err != nil {
			return err
		}
		if isStructured(app.Config.OutputFormat) {
			return PrintOutput(w, app.Config.OutputFormat, map[string]string{"unit": name, "dependencies": deps})
		}
		_, err = fmt.Fprintln(w, strings.TrimRight(deps, "\n"))
		return err
	}

	tree, err := app.Manager.DependencyTree(ctx, name, scope)
	if err != nil {
		return fmt.Errorf("failed to list dependencies of %s: %w", name, err)
	}
	if isStructured(app.Config.OutputFormat) {
		nodes := []DependencyNode{}
		if err := tree.Walk(func(unit string, depth int) {
			nodes = append(nodes, DependencyNode{Unit: unit, Depth: depth})
		}); err != nil {
			return err
		}
		return PrintOutput(w, app.Config.OutputFormat, nodes)
	}
	_, err = fmt.Fprint(w, tree.Render())
	return err
}

// PropsCommand represents the props command.
type PropsCommand struct{}

// NewPropsCommand creates a new PropsCommand.
func NewPropsCommand() *PropsCommand {
	return &PropsCommand{}
}

// GetCobraCommand returns the cobra command for showing unit properties.
func (c *PropsCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("props UNIT", "Show the properties of a unit",
		"Show the non-empty properties of a unit sorted by name.", c.Run)
}

// Run executes the props command with injected dependencies.
func (c *PropsCommand) Run(ctx context.Context, app *App, _ UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	props := []control.Property{}
	err := app.Manager.Properties(ctx, name, app.Scope(), func(_ int, key, value string) {
		props = append(props, control.Property{Key: key, Value: value})
	})
	if err != nil {
		return fmt.Errorf("failed to show properties of %s: %w", name, err)
	}

	if isStructured(app.Config.OutputFormat) {
		return PrintOutput(w, app.Config.OutputFormat, props)
	}
	tbl := newTable(w, "Property", "Value")
	for _, p := range props {
		tbl.AddRow(p.Key, p.Value)
	}
	tbl.Print()
	return nil
}

// CatCommand represents the cat command.
type CatCommand struct{}

// NewCatCommand creates a new CatCommand.
func NewCatCommand() *CatCommand {
	return &CatCommand{}
}

// GetCobraCommand returns the cobra command for showing a unit file.
func (c *CatCommand) GetCobraCommand() *cobra.Command {
	return newUnitCobraCommand("cat UNIT", "Show the unit file of a unit", "", c.Run)
}

// Run executes the cat command with injected dependencies.
func (c *CatCommand) Run(ctx context.Context, app *App, _ UnitDeps, w io.Writer, name string) error {
	if err := refreshScope(ctx, app); err != nil {
		return err
	}
	f, err := app.Manager.Cat(ctx, name, app.Scope())
	if err != nil {
		return fmt.Errorf("failed to read unit file of %s: %w", name, err)
	}
	if isStructured(app.Config.OutputFormat) {
		return PrintOutput(w, app.Config.OutputFormat, f)
	}
	fmt.Fprintf(w, "# %s\n", f.Path)
	if f.Description != "" {
		fmt.Fprintf(w, "# %s\n", f.Description)
	}
	fmt.Fprintln(w, strings.Repeat("-", 80))
	_, err = fmt.Fprintln(w, f.Content)
	return err
}
