package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// AnalyzeCommand represents the analyze command group.
type AnalyzeCommand struct{}

// NewAnalyzeCommand creates a new AnalyzeCommand.
func NewAnalyzeCommand() *AnalyzeCommand {
	return &AnalyzeCommand{}
}

// GetCobraCommand returns the cobra command for boot analysis.
func (c *AnalyzeCommand) GetCobraCommand() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze boot performance with systemd-analyze",
	}
	analyzeCmd.AddCommand(c.blameCommand(), c.timeCommand())
	return analyzeCmd
}

func (c *AnalyzeCommand) blameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "blame",
		Short: "Show unit startup times, slowest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return c.RunBlame(cmd.Context(), app, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func (c *AnalyzeCommand) timeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "time",
		Short: "Show the time spent in kernel and userspace during boot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			return c.RunTime(cmd.Context(), app, cmd.OutOrStdout())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

// BlameRow is one row of analyze blame output.
type BlameRow struct {
	Unit   string `json:"unit" yaml:"unit"`
	Millis int64  `json:"ms" yaml:"ms"`
}

// RunBlame prints the startup time of every unit.
func (c *AnalyzeCommand) RunBlame(ctx context.Context, app *App, w io.Writer) error {
	blames, err := app.Analyzer.Blame(ctx, app.Scope())
	if err != nil {
		return fmt.Errorf("failed to analyze startup: %w", err)
	}

	rows := make([]BlameRow, 0, len(blames))
	for _, b := range blames {
		rows = append(rows, BlameRow{Unit: b.Unit, Millis: b.Millis()})
	}
	if isStructured(app.Config.OutputFormat) {
		return PrintOutput(w, app.Config.OutputFormat, rows)
	}

	tbl := newTable(w, "Unit", "Time (ms)")
	for _, r := range rows {
		tbl.AddRow(r.Unit, r.Millis)
	}
	tbl.Print()
	return nil
}

// RunTime prints the boot phase durations. Phases systemd-analyze could not
// report are shown as N/A.
func (c *AnalyzeCommand) RunTime(ctx context.Context, app *App, w io.Writer) error {
	times, err := app.Analyzer.Time(ctx, app.Scope())
	if err != nil {
		app.Logger.Warn("Boot time analysis failed", "error", err)
	}
	if isStructured(app.Config.OutputFormat) {
		return PrintOutput(w, app.Config.OutputFormat, times)
	}
	tbl := newTable(w, "Phase", "Time")
	tbl.AddRow("kernel", times.Kernel)
	tbl.AddRow("userspace", times.Userspace)
	tbl.AddRow("total", times.Total)
	tbl.Print()
	return nil
}
