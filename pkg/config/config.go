// Package config manages the ipmirage configuration file and credential
// resolution. Configuration is optional: a missing file yields defaults,
// and environment variables override the file for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted for IPMI credentials. The unprefixed
// names are accepted for compatibility with the original shell-based
// workflow.
const (
	EnvUsername       = "IPMI_USERNAME"
	EnvPassword       = "IPMI_PASSWORD"
	EnvUsernameLegacy = "USERNAME"
	EnvPasswordLegacy = "PASSWORD"
)

// Default IPMI credentials used when neither the environment nor the
// config file provides them.
const (
	DefaultUsername = "ADMIN"
	DefaultPassword = "admin"
)

// Duration wraps time.Duration so YAML values like "30s" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Config holds the ipmirage configuration.
type Config struct {
	Network struct {
		// Interface carries the temporary address during provisioning.
		Interface string `yaml:"interface"`
	} `yaml:"network"`

	IPMI struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		// Tool is the ipmitool binary (name or absolute path).
		Tool string `yaml:"tool"`
		// Timeout bounds each remote command.
		Timeout Duration `yaml:"timeout"`
	} `yaml:"ipmi"`

	Provision struct {
		// SettleDelay is the wait after the temporary address is added,
		// giving the BMC network stack time to apply its new address.
		SettleDelay Duration `yaml:"settle_delay"`
		// StrictReset escalates a failed BMC reset to a fatal error.
		StrictReset bool `yaml:"strict_reset"`
		// Verify probes the BMC at its new address after reset.
		Verify        bool     `yaml:"verify"`
		VerifyTimeout Duration `yaml:"verify_timeout"`
	} `yaml:"provision"`

	// LogFile mirrors log output to a file when set.
	LogFile string `yaml:"log_file,omitempty"`
	// AuditLog is the JSON-lines audit log path. Empty disables auditing.
	AuditLog string `yaml:"audit_log,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.Network.Interface = "eth0"
	c.IPMI.Tool = "ipmitool"
	c.IPMI.Timeout = Duration(30 * time.Second)
	c.Provision.SettleDelay = Duration(10 * time.Second)
	c.Provision.VerifyTimeout = Duration(60 * time.Second)
	return c
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "ipmirage.yaml"
	}
	return filepath.Join(home, ".ipmirage", "config.yaml")
}

// Load reads the config from the default location.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads the config from path, merging over the defaults.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return c, nil
}

// ResolveCredentials returns the effective IPMI username and password:
// environment over config file over built-in defaults.
func (c *Config) ResolveCredentials() (username, password string) {
	username = firstNonEmpty(
		os.Getenv(EnvUsername),
		os.Getenv(EnvUsernameLegacy),
		c.IPMI.Username,
		DefaultUsername,
	)
	password = firstNonEmpty(
		os.Getenv(EnvPassword),
		os.Getenv(EnvPasswordLegacy),
		c.IPMI.Password,
		DefaultPassword,
	)
	return username, password
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
