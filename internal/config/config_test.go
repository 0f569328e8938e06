package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate prevents the provider from picking up real config files.
func isolate(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestInitConfig_Defaults(t *testing.T) {
	isolate(t)

	provider := NewConfigProvider()
	cfg, err := provider.InitConfig()
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.Same(t, cfg, provider.GetConfig())
	assert.Empty(t, ConfigFileUsed(provider))
}

func TestGetConfig_BeforeInit(t *testing.T) {
	provider := NewConfigProvider()
	assert.Equal(t, Defaults(), provider.GetConfig())
}

func TestSetAndGetConfig(t *testing.T) {
	testConfig := &Settings{
		UserMode:       true,
		Transport:      TransportSystemctl,
		DBusTimeout:    5 * time.Second,
		CommandTimeout: 10 * time.Second,
		JobMode:        JobModeReplace,
		OutputFormat:   OutputJSON,
	}

	provider := NewConfigProvider()
	provider.SetConfig(testConfig)
	assert.Equal(t, testConfig, provider.GetConfig())
}

func TestCustomConfigFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "unitctl.yaml")
	configContent := `userMode: true
verbose: true
transport: systemctl
dbusTimeout: 10s
commandTimeout: 1m
jobMode: replace
excludeVendorServices: true
vendorPathPrefix: /usr/local/lib/systemd/
outputFormat: yaml`
	require.NoError(t, os.WriteFile(path, []byte(configContent), 0600))

	provider := NewConfigProvider()
	provider.SetConfigFilePath(path)
	cfg, err := provider.InitConfig()
	require.NoError(t, err)

	assert.True(t, cfg.UserMode)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, TransportSystemctl, cfg.Transport)
	assert.Equal(t, 10*time.Second, cfg.DBusTimeout)
	assert.Equal(t, time.Minute, cfg.CommandTimeout)
	assert.Equal(t, JobModeReplace, cfg.JobMode)
	assert.True(t, cfg.ExcludeVendorServices)
	assert.Equal(t, "/usr/local/lib/systemd/", cfg.VendorPathPrefix)
	assert.Equal(t, OutputYAML, cfg.OutputFormat)
	assert.Equal(t, DefaultSystemctlPath, cfg.SystemctlPath)
	assert.Equal(t, path, ConfigFileUsed(provider))
}

func TestInitConfig_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("UNITCTL_TRANSPORT", "systemctl")
	t.Setenv("UNITCTL_JOBMODE", "replace")

	cfg, err := NewConfigProvider().InitConfig()
	require.NoError(t, err)

	assert.Equal(t, TransportSystemctl, cfg.Transport)
	assert.Equal(t, JobModeReplace, cfg.JobMode)
}

func TestConfigNotFound(t *testing.T) {
	isolate(t)

	provider := NewConfigProvider()
	provider.SetConfigFilePath("/nonexistent/config.yaml")
	_, err := provider.InitConfig()
	assert.Error(t, err)
}

func TestInitConfig_InvalidFile(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport: carrier-pigeon\n"), 0600))

	provider := NewConfigProvider()
	provider.SetConfigFilePath(path)
	_, err := provider.InitConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "carrier-pigeon")
}

func TestSettingsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *Settings)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Settings) {}},
		{name: "unknown transport", mutate: func(s *Settings) { s.Transport = "ssh" }, wantErr: "unknown transport"},
		{name: "unknown job mode", mutate: func(s *Settings) { s.JobMode = "isolate" }, wantErr: "unknown job mode"},
		{name: "unknown output", mutate: func(s *Settings) { s.OutputFormat = "xml" }, wantErr: "unknown output format"},
		{name: "unknown log format", mutate: func(s *Settings) { s.LogFormat = "logfmt" }, wantErr: "unknown log format"},
		{name: "json logs", mutate: func(s *Settings) { s.LogFormat = LogFormatJSON }},
		{name: "zero dbus timeout", mutate: func(s *Settings) { s.DBusTimeout = 0 }, wantErr: "dbusTimeout"},
		{name: "negative command timeout", mutate: func(s *Settings) { s.CommandTimeout = -time.Second }, wantErr: "commandTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
