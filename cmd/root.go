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

	"github.com/spf13/cobra"

	"github.com/trly/unitctl/internal/config"
	"github.com/trly/unitctl/internal/log"
)

// RootOptions holds the persistent flags.
type RootOptions struct {
	UserMode   bool
	Verbose    bool
	ConfigFile string
	Output     string
	Transport  string
}

// RootCommand represents the root command for unitctl CLI.
type RootCommand struct {
	opts RootOptions
}

// GetCobraCommand returns the cobra root command for unitctl CLI.
func (c *RootCommand) GetCobraCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "unitctl",
		Short: "unitctl lists and controls systemd units.",
		Long: `unitctl lists the systemd unit files of the system or user manager and
enables, disables, starts and stops them. It also shows a unit's journal,
dependencies, properties and unit file.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&c.opts.UserMode, "user", "u", false, "Talk to the user service manager")
	rootCmd.PersistentFlags().BoolVarP(&c.opts.Verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&c.opts.ConfigFile, "config", "", "Path to the configuration file")
	rootCmd.PersistentFlags().StringVarP(&c.opts.Output, "output", "o", "", "Output format (text, json, yaml)")
	rootCmd.PersistentFlags().StringVar(&c.opts.Transport, "transport", "", "Unit enumeration transport (dbus, systemctl)")

	rootCmd.AddCommand(
		NewListCommand().GetCobraCommand(),
		NewEnableCommand().GetCobraCommand(),
		NewDisableCommand().GetCobraCommand(),
		NewStartCommand().GetCobraCommand(),
		NewStopCommand().GetCobraCommand(),
		NewStatusCommand().GetCobraCommand(),
		NewToggleCommand().GetCobraCommand(),
		NewJournalCommand().GetCobraCommand(),
		NewDepsCommand().GetCobraCommand(),
		NewPropsCommand().GetCobraCommand(),
		NewCatCommand().GetCobraCommand(),
		NewSaveCommand().GetCobraCommand(),
		NewAnalyzeCommand().GetCobraCommand(),
		NewDoctorCommand().GetCobraCommand(),
		(&ConfigCommand{}).GetCobraCommand(),
		NewVersionCommand().GetCobraCommand(),
	)

	return rootCmd
}

// setup loads the configuration and stores the App in the command context.
// An App already in the context only gets the flag overrides.
func (c *RootCommand) setup(cmd *cobra.Command) error {
	if app := appFromContext(cmd); app != nil {
		c.applyFlags(cmd, app.Config)
		return nil
	}

	provider := config.NewConfigProvider()
	if c.opts.ConfigFile != "" {
		provider.SetConfigFilePath(c.opts.ConfigFile)
	}
	cfg, err := provider.InitConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	c.applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	provider.SetConfig(cfg)

	log.Init(log.Options{Verbose: cfg.Verbose, JSON: cfg.LogFormat == config.LogFormatJSON})
	logger := log.GetLogger()
	if used := config.ConfigFileUsed(provider); used != "" {
		logger.Debug("Using config file", "path", used)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), appContextKey, NewApp(logger, provider)))
	return nil
}

func (c *RootCommand) applyFlags(cmd *cobra.Command, cfg *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("user") {
		cfg.UserMode = c.opts.UserMode
	}
	if c.opts.Verbose {
		cfg.Verbose = true
	}
	if flags.Changed("output") {
		cfg.OutputFormat = c.opts.Output
	}
	if flags.Changed("transport") {
		cfg.Transport = c.opts.Transport
	}
}

func appFromContext(cmd *cobra.Command) *App {
	ctx := cmd.Context()
	if ctx == nil {
		return nil
	}
	app, _ := ctx.Value(appContextKey).(*App)
	return app
}

// getApp retrieves the App from the command context.
func getApp(cmd *cobra.Command) (*App, error) {
	app := appFromContext(cmd)
	if app == nil {
		return nil, fmt.Errorf("%s: application not initialized", cmd.CommandPath())
	}
	return app, nil
}

// Execute runs the unitctl command line with ctx.
func Execute(ctx context.Context) error {
	return (&RootCommand{}).GetCobraCommand().ExecuteContext(ctx)
}
