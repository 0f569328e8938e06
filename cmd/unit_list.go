/*
Copyright © 2025 Travis Lyons travis.lyons@gmail.com

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/

// Package cmd provides unit command functionality for unitctl CLI
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/trly/unitctl/internal/unit"
)

// ListOptions holds list command options.
type ListOptions struct {
	UnitType  string
	Togglable bool
	Vendor    bool
	// vendorSet is true when --vendor was given explicitly.
	vendorSet bool
}

// ListDeps holds list dependencies.
type ListDeps struct {
	CommonDeps
}

// ListCommand represents the unit list command.
type ListCommand struct{}

// NewListCommand creates a new ListCommand.
func NewListCommand() *ListCommand {
	return &ListCommand{}
}

// GetCobraCommand returns the cobra command for listing units.
func (c *ListCommand) GetCobraCommand() *cobra.Command {
	var opts ListOptions

	unitListCmd := &cobra.Command{
		Use:   "list",
		Short: "Lists the unit files of the service manager",
		Long: `Lists the enabled, disabled and masked unit files of the service manager
together with whether each unit is currently active.

With --togglable only units that can be enabled or disabled are shown:
masked, static and template units are left out.`,
		Args: cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return validateUnitType(opts.UnitType)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			opts.vendorSet = cmd.Flags().Changed("vendor")
			return c.Run(cmd.Context(), app, opts, c.buildDeps(app), cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	unitListCmd.Flags().StringVarP(&opts.UnitType, "type", "t", "all", "Type of unit to list (service, socket, timer, ..., all)")
	unitListCmd.Flags().BoolVar(&opts.Togglable, "togglable", false, "Only list units that can be enabled or disabled")
	unitListCmd.Flags().BoolVar(&opts.Vendor, "vendor", true, "Include vendor services in --togglable output")
	_ = unitListCmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return allowedUnitTypes(), cobra.ShellCompDirectiveNoFileComp
	})

	return unitListCmd
}

// buildDeps creates production dependencies for the list command.
func (c *ListCommand) buildDeps(app *App) ListDeps {
	return ListDeps{
		CommonDeps: NewRootDeps(app),
	}
}

// Run executes the list command with injected dependencies.
func (c *ListCommand) Run(ctx context.Context, app *App, opts ListOptions, deps ListDeps, w io.Writer) error {
	reg := app.Registries.For(app.Scope())

	start := deps.Clock.Now()
	if err := reg.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to list units: %w", err)
	}
	deps.Logger.Debug("Listed units", "scope", reg.Scope(), "count", reg.Len(), "elapsed", deps.Clock.Since(start))

	types := unit.AllTypes()
	if opts.UnitType != "" && opts.UnitType != "all" {
		t, err := unit.ParseTypeName(opts.UnitType)
		if err != nil {
			return err
		}
		types = []unit.Type{t}
	}

	policy := app.Policy()
	if opts.vendorSet {
		policy.ExcludeVendorServices = !opts.Vendor
	}

	all := reg.Snapshot()
	units := unit.Units{}
	for _, t := range types {
		if opts.Togglable {
			units = append(units, reg.Togglable(t, policy)...)
		} else {
			units = append(units, all.OfType(t)...)
		}
	}
	unit.Sort(units)

	if isStructured(app.Config.OutputFormat) {
		return PrintOutput(w, app.Config.OutputFormat, units)
	}
	return c.printTables(w, types, units)
}

func (c *ListCommand) printTables(w io.Writer, types []unit.Type, units unit.Units) error {
	if len(units) == 0 {
		_, err := fmt.Fprintln(w, "No units found")
		return err
	}
	printed := 0
	for _, t := range types {
		group := units.OfType(t)
		if len(group) == 0 {
			continue
		}
		if printed > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, typeHeading(t))
		tbl := newTable(w, "Name", "State", "Active", "Path")
		for _, u := range group {
			tbl.AddRow(u.Name, u.State, activeLabel(u.Active), u.Path)
		}
		tbl.Print()
		printed++
	}
	return nil
}

func allowedUnitTypes() []string {
	names := []string{"all"}
	for _, t := range unit.AllTypes() {
		names = append(names, t.String())
	}
	return names
}

func validateUnitType(unitType string) error {
	if unitType == "" {
		return nil
	}
	for _, allowed := range allowedUnitTypes() {
		if unitType == allowed {
			return nil
		}
	}
	return fmt.Errorf("invalid unit type: %s, allowed types are: %v", unitType, allowedUnitTypes())
}
