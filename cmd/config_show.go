// Package cmd provides config show command functionality for unitctl CLI
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/trly/unitctl/internal/config"
)

// ConfigShowCommand represents the config show command.
type ConfigShowCommand struct{}

// NewConfigShowCommand creates a new ConfigShowCommand.
func NewConfigShowCommand() *ConfigShowCommand {
	return &ConfigShowCommand{}
}

// GetCobraCommand returns the cobra command for config show operations.
func (c *ConfigShowCommand) GetCobraCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  "Display the current configuration including defaults and overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if isStructured(app.Config.OutputFormat) {
				return PrintOutput(w, app.Config.OutputFormat, app.Config)
			}

			if used := config.ConfigFileUsed(app.ConfigProvider); used != "" {
				fmt.Fprintf(w, "# %s\n", used)
			}
			output, err := yaml.Marshal(app.Config)
			if err != nil {
				return fmt.Errorf("error marshalling config: %w", err)
			}
			_, err = fmt.Fprint(w, string(output))
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
