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
	"runtime"

	"github.com/spf13/cobra"
)

// Build information set by goreleaser.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// VersionCommand represents the version command.
type VersionCommand struct{}

// NewVersionCommand creates a new VersionCommand.
func NewVersionCommand() *VersionCommand {
	return &VersionCommand{}
}

// GetCobraCommand returns the cobra command for displaying version information.
func (c *VersionCommand) GetCobraCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for unitctl and the systemd it talks to.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.printBuild(cmd.OutOrStdout())
			if app := appFromContext(cmd); app != nil {
				c.printSystemd(cmd.Context(), app, cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func (c *VersionCommand) printBuild(w io.Writer) {
	fmt.Fprintf(w, "unitctl version %s\n", Version)
	fmt.Fprintf(w, "  commit: %s\n", Commit)
	fmt.Fprintf(w, "  built: %s\n", Date)
	fmt.Fprintf(w, "  go: %s\n", runtime.Version())
}

func (c *VersionCommand) printSystemd(ctx context.Context, app *App, w io.Writer) {
	v, err := app.Systemctl.Version(ctx)
	if err != nil {
		app.Logger.Debug("Reading systemd version failed", "error", err)
		fmt.Fprintln(w, "  systemd: unknown")
		return
	}
	fmt.Fprintf(w, "  systemd: %d\n", v.Major)
}
