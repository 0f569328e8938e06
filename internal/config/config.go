// Package config provides configuration management for unitctl
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Provider defines the interface for configuration providers.
type Provider interface {
	// GetConfig returns the current application configuration.
	GetConfig() *Settings
	// SetConfig sets the application configuration.
	SetConfig(c *Settings)
	// InitConfig loads defaults, the config file and the environment.
	InitConfig() (*Settings, error)
	// SetConfigFilePath sets the configuration file path.
	SetConfigFilePath(p string)
}

// Transport names.
const (
	TransportDBus      = "dbus"
	TransportSystemctl = "systemctl"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Log formats for diagnostics on stderr.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Job modes accepted by the systemd manager for start and stop.
const (
	JobModeFail    = "fail"
	JobModeReplace = "replace"
)

// Default configuration values for unitctl.
const (
	DefaultUserMode              = false
	DefaultVerbose               = false
	DefaultTransport             = TransportDBus
	DefaultDBusTimeout           = 30 * time.Second
	DefaultCommandTimeout        = 30 * time.Second
	DefaultJobMode               = JobModeFail
	DefaultSystemctlPath         = "systemctl"
	DefaultJournalctlPath        = "journalctl"
	DefaultAnalyzePath           = "systemd-analyze"
	DefaultExcludeVendorServices = false
	DefaultVendorPathPrefix      = "/etc/"
	DefaultOutputFormat          = OutputText
	DefaultLogFormat             = LogFormatText

	envPrefix = "UNITCTL"
)

// Settings represents the configuration for unitctl.
type Settings struct {
	UserMode              bool          `yaml:"userMode" json:"userMode" mapstructure:"userMode"`
	Verbose               bool          `yaml:"verbose" json:"verbose" mapstructure:"verbose"`
	Transport             string        `yaml:"transport" json:"transport" mapstructure:"transport"`
	DBusTimeout           time.Duration `yaml:"dbusTimeout" json:"dbusTimeout" mapstructure:"dbusTimeout"`
	CommandTimeout        time.Duration `yaml:"commandTimeout" json:"commandTimeout" mapstructure:"commandTimeout"`
	JobMode               string        `yaml:"jobMode" json:"jobMode" mapstructure:"jobMode"`
	SystemctlPath         string        `yaml:"systemctlPath" json:"systemctlPath" mapstructure:"systemctlPath"`
	JournalctlPath        string        `yaml:"journalctlPath" json:"journalctlPath" mapstructure:"journalctlPath"`
	AnalyzePath           string        `yaml:"analyzePath" json:"analyzePath" mapstructure:"analyzePath"`
	ExcludeVendorServices bool          `yaml:"excludeVendorServices" json:"excludeVendorServices" mapstructure:"excludeVendorServices"`
	VendorPathPrefix      string        `yaml:"vendorPathPrefix" json:"vendorPathPrefix" mapstructure:"vendorPathPrefix"`
	OutputFormat          string        `yaml:"outputFormat" json:"outputFormat" mapstructure:"outputFormat"`
	LogFormat             string        `yaml:"logFormat" json:"logFormat" mapstructure:"logFormat"`
}

// Defaults returns a Settings populated with the default values.
func Defaults() *Settings {
	return &Settings{
		UserMode:              DefaultUserMode,
		Verbose:               DefaultVerbose,
		Transport:             DefaultTransport,
		DBusTimeout:           DefaultDBusTimeout,
		CommandTimeout:        DefaultCommandTimeout,
		JobMode:               DefaultJobMode,
		SystemctlPath:         DefaultSystemctlPath,
		JournalctlPath:        DefaultJournalctlPath,
		AnalyzePath:           DefaultAnalyzePath,
		ExcludeVendorServices: DefaultExcludeVendorServices,
		VendorPathPrefix:      DefaultVendorPathPrefix,
		OutputFormat:          DefaultOutputFormat,
		LogFormat:             DefaultLogFormat,
	}
}

// Validate rejects settings the rest of the program cannot act on.
func (s *Settings) Validate() error {
	var errs []error

	switch s.Transport {
	case TransportDBus, TransportSystemctl:
	default:
		errs = append(errs, fmt.Errorf("unknown transport %q (want %s or %s)", s.Transport, TransportDBus, TransportSystemctl))
	}

	switch s.JobMode {
	case JobModeFail, JobModeReplace:
	default:
		errs = append(errs, fmt.Errorf("unknown job mode %q (want %s or %s)", s.JobMode, JobModeFail, JobModeReplace))
	}

	switch s.OutputFormat {
	case OutputText, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", s.OutputFormat))
	}

	switch s.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", s.LogFormat))
	}

	if s.DBusTimeout <= 0 {
		errs = append(errs, fmt.Errorf("dbusTimeout must be positive, got %s", s.DBusTimeout))
	}
	if s.CommandTimeout <= 0 {
		errs = append(errs, fmt.Errorf("commandTimeout must be positive, got %s", s.CommandTimeout))
	}

	return errors.Join(errs...)
}

type viperProvider struct {
	v          *viper.Viper
	cfg        *Settings
	configFile string
}

// NewConfigProvider creates a provider backed by its own viper instance.
func NewConfigProvider() Provider {
	return &viperProvider{v: viper.New()}
}

func (p *viperProvider) SetConfig(c *Settings) {
	p.cfg = c
}

func (p *viperProvider) GetConfig() *Settings {
	if p.cfg == nil {
		return Defaults()
	}
	return p.cfg
}

func (p *viperProvider) SetConfigFilePath(path string) {
	p.configFile = path
}

func (p *viperProvider) InitConfig() (*Settings, error) {
	v := p.v
	d := Defaults()

	v.SetDefault("userMode", d.UserMode)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("transport", d.Transport)
	v.SetDefault("dbusTimeout", d.DBusTimeout)
	v.SetDefault("commandTimeout", d.CommandTimeout)
	v.SetDefault("jobMode", d.JobMode)
	v.SetDefault("systemctlPath", d.SystemctlPath)
	v.SetDefault("journalctlPath", d.JournalctlPath)
	v.SetDefault("analyzePath", d.AnalyzePath)
	v.SetDefault("excludeVendorServices", d.ExcludeVendorServices)
	v.SetDefault("vendorPathPrefix", d.VendorPathPrefix)
	v.SetDefault("outputFormat", d.OutputFormat)
	v.SetDefault("logFormat", d.LogFormat)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigType("yaml")
	if p.configFile != "" {
		v.SetConfigFile(p.configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(os.ExpandEnv("$HOME/.config/unitctl"))
		v.AddConfigPath("/etc/unitctl")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case p.configFile != "":
			return nil, fmt.Errorf("config file %s: %w", p.configFile, err)
		case errors.As(err, &notFound):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Settings{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p.cfg = cfg
	return cfg, nil
}

// ConfigFileUsed reports the file viper loaded, if any.
func ConfigFileUsed(p Provider) string {
	if vp, ok := p.(*viperProvider); ok {
		return vp.v.ConfigFileUsed()
	}
	return ""
}
