package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trly/unitctl/internal/config"
	"github.com/trly/unitctl/internal/unit"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := (&RootCommand{}).GetCobraCommand()

	for flag, def := range map[string]string{
		"user":      "false",
		"verbose":   "false",
		"config":    "",
		"output":    "",
		"transport": "",
	} {
		f := cmd.PersistentFlags().Lookup(flag)
		require.NotNil(t, f, flag)
		assert.Equal(t, def, f.DefValue, flag)
	}
	assert.Equal(t, "u", cmd.PersistentFlags().Lookup("user").Shorthand)
	assert.Equal(t, "o", cmd.PersistentFlags().Lookup("output").Shorthand)
}

func TestRootCommandSubcommands(t *testing.T) {
	cmd := (&RootCommand{}).GetCobraCommand()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{"list", "enable", "disable", "start", "stop", "status", "toggle", "journal", "deps", "props", "cat", "save", "analyze", "doctor", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestRootCommand_FlagsOverrideConfig(t *testing.T) {
	app := NewAppBuilder(t).Build(t)
	root := newTestRoot(app)

	_, err := ExecuteCommandWithCapture(t, root, []string{"--user", "-o", "json", "--transport", "systemctl", "config", "show"})
	require.NoError(t, err)

	assert.True(t, app.Config.UserMode)
	assert.Equal(t, unit.ScopeUser, app.Scope())
	assert.Equal(t, config.OutputJSON, app.Config.OutputFormat)
	assert.Equal(t, config.TransportSystemctl, app.Config.Transport)
}

func TestRootCommand_LoadsConfigFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	root := (&RootCommand{}).GetCobraCommand()
	AssertCommandFailure(t, root, []string{"--config", "/nonexistent/unitctl.yaml", "config", "show"}, "loading configuration")
}

func TestGetApp_NotInitialized(t *testing.T) {
	cmd := NewPropsCommand().GetCobraCommand()
	SetupCommandContext(cmd, nil)
	_, err := getApp(cmd)
	assert.ErrorContains(t, err, "application not initialized")
}
