// Package cmd provides the command line interface for unitctl
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
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/blang/semver/v4"
	"github.com/spf13/cobra"

	"github.com/trly/unitctl/internal/config"
)

// stateFlagVersion is the first systemd whose list-unit-files takes --state.
var stateFlagVersion = semver.MustParse("216.0.0")

// DoctorOptions holds doctor command options.
type DoctorOptions struct{}

// DoctorDeps holds doctor dependencies.
type DoctorDeps struct {
	CommonDeps
}

// DoctorCommand represents the doctor command for unitctl CLI.
type DoctorCommand struct{}

// NewDoctorCommand creates a new DoctorCommand.
func NewDoctorCommand() *DoctorCommand {
	return &DoctorCommand{}
}

// CheckResult represents the result of a diagnostic check.
type CheckResult struct {
	Name        string   `json:"name" yaml:"name"`
	Passed      bool     `json:"passed" yaml:"passed"`
	Message     string   `json:"message,omitempty" yaml:"message,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// HealthCheckOutput represents the structured output of the doctor command.
type HealthCheckOutput struct {
	Overall string        `json:"overall" yaml:"overall"`
	Checks  []CheckResult `json:"checks" yaml:"checks"`
	Failed  int           `json:"failed" yaml:"failed"`
}

// GetCobraCommand returns the cobra command for doctor operations.
func (c *DoctorCommand) GetCobraCommand() *cobra.Command {
	var opts DoctorOptions

	doctorCmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check that unitctl can reach the service manager",
		Long: `Check that unitctl can reach the service manager.

The doctor command checks:
- the configuration is valid
- systemctl, journalctl and systemd-analyze can be run
- the systemd version supports list-unit-files --state
- the D-Bus connection to the selected manager can be opened`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return c.Run(cmd.Context(), app, opts, c.buildDeps(app), cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	return doctorCmd
}

// buildDeps creates production dependencies for the doctor command.
func (c *DoctorCommand) buildDeps(app *App) DoctorDeps {
	return DoctorDeps{
		CommonDeps: NewRootDeps(app),
	}
}

// Run executes the doctor command with injected dependencies.
func (c *DoctorCommand) Run(ctx context.Context, app *App, _ DoctorOptions, deps DoctorDeps, w io.Writer) error {
	var results []CheckResult
	results = append(results, c.checkConfiguration(app))
	results = append(results, c.checkSystemd(ctx, app)...)
	results = append(results, c.checkTools(ctx, app)...)
	results = append(results, c.checkBus(ctx, app))

	failed := 0
	for _, r := range results {
		if !r.Passed {
			failed++
			deps.Logger.Debug("Check failed", "check", r.Name, "message", r.Message)
		}
	}

	if isStructured(app.Config.OutputFormat) {
		overall := "healthy"
		if failed > 0 {
			overall = "unhealthy"
		}
		if err := PrintOutput(w, app.Config.OutputFormat, HealthCheckOutput{Overall: overall, Checks: results, Failed: failed}); err != nil {
			return err
		}
	} else {
		c.displayResults(w, results, app.Config.Verbose)
	}

	if failed > 0 {
		return fmt.Errorf("doctor found %d issues", failed)
	}
	return nil
}

func (c *DoctorCommand) checkConfiguration(app *App) CheckResult {
	if err := app.Config.Validate(); err != nil {
		return CheckResult{
			Name:        "Configuration",
			Message:     err.Error(),
			Suggestions: []string{"Run 'unitctl config show' and fix the reported settings"},
		}
	}
	msg := "Using defaults"
	if used := config.ConfigFileUsed(app.ConfigProvider); used != "" {
		msg = "Loaded " + used
	}
	return CheckResult{Name: "Configuration", Passed: true, Message: msg}
}

func (c *DoctorCommand) checkSystemd(ctx context.Context, app *App) []CheckResult {
	v, err := app.Systemctl.Version(ctx)
	if err != nil {
		return []CheckResult{{
			Name:    "systemctl",
			Message: err.Error(),
			Suggestions: []string{
				"Install systemd or set systemctlPath in the configuration",
				"Ensure systemctl is in your PATH",
			},
		}}
	}
	results := []CheckResult{{Name: "systemctl", Passed: true, Message: fmt.Sprintf("systemd %d", v.Major)}}
	if v.LT(stateFlagVersion) {
		results = append(results, CheckResult{
			Name:        "systemd version",
			Passed:      true,
			Message:     fmt.Sprintf("systemd %d predates list-unit-files --state; states are filtered locally", v.Major),
			Suggestions: []string{"Use the dbus transport for faster enumeration"},
		})
	}
	return results
}

func (c *DoctorCommand) checkTools(ctx context.Context, app *App) []CheckResult {
	tools := []struct {
		name string
		path string
	}{
		{"journalctl", app.Config.JournalctlPath},
		{"systemd-analyze", app.Config.AnalyzePath},
	}

	results := make([]CheckResult, 0, len(tools))
	for _, tool := range tools {
		if _, err := app.Runner.Output(ctx, tool.path, "--version"); err != nil {
			results = append(results, CheckResult{
				Name:        tool.name,
				Message:     err.Error(),
				Suggestions: []string{fmt.Sprintf("Install %s or set its path in the configuration", tool.name)},
			})
			continue
		}
		results = append(results, CheckResult{Name: tool.name, Passed: true, Message: tool.path})
	}
	return results
}

func (c *DoctorCommand) checkBus(ctx context.Context, app *App) CheckResult {
	scope := app.Scope()
	name := fmt.Sprintf("D-Bus (%s)", scope)
	conn, err := app.Connections.NewConnection(ctx, scope)
	if err != nil {
		suggestions := []string{"Ensure the system bus is running and you may talk to systemd"}
		if scope.IsUser() {
			suggestions = []string{"Ensure a user session bus is running (loginctl enable-linger may help)"}
		}
		return CheckResult{Name: name, Message: err.Error(), Suggestions: suggestions}
	}
	_ = conn.Close()
	return CheckResult{Name: name, Passed: true, Message: "connected"}
}

func (c *DoctorCommand) displayResults(w io.Writer, results []CheckResult, verbose bool) {
	for _, r := range results {
		mark := "✓"
		if !r.Passed {
			mark = "✗"
		}
		if r.Passed && !verbose {
			fmt.Fprintf(w, "%s %s\n", mark, r.Name)
			continue
		}
		fmt.Fprintf(w, "%s %s: %s\n", mark, r.Name, r.Message)
		for _, s := range r.Suggestions {
			fmt.Fprintf(w, "    - %s\n", s)
		}
	}
}
