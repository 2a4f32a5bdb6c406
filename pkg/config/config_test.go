package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	c, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if c.Network.Interface != "eth0" {
		t.Errorf("default interface = %q, want eth0", c.Network.Interface)
	}
	if c.IPMI.Tool != "ipmitool" {
		t.Errorf("default tool = %q, want ipmitool", c.IPMI.Tool)
	}
	if time.Duration(c.IPMI.Timeout) != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", time.Duration(c.IPMI.Timeout))
	}
	if time.Duration(c.Provision.SettleDelay) != 10*time.Second {
		t.Errorf("default settle delay = %v, want 10s", time.Duration(c.Provision.SettleDelay))
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
network:
  interface: eno1
ipmi:
  username: operator
  password: hunter2
  timeout: 5s
provision:
  settle_delay: 1s
  strict_reset: true
audit_log: /var/log/ipmirage-audit.log
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if c.Network.Interface != "eno1" {
		t.Errorf("interface = %q, want eno1", c.Network.Interface)
	}
	if time.Duration(c.IPMI.Timeout) != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", time.Duration(c.IPMI.Timeout))
	}
	if time.Duration(c.Provision.SettleDelay) != time.Second {
		t.Errorf("settle delay = %v, want 1s", time.Duration(c.Provision.SettleDelay))
	}
	if !c.Provision.StrictReset {
		t.Error("strict_reset should be true")
	}
	if c.AuditLog != "/var/log/ipmirage-audit.log" {
		t.Errorf("audit_log = %q", c.AuditLog)
	}
	// File values not set keep their defaults
	if c.IPMI.Tool != "ipmitool" {
		t.Errorf("tool = %q, want default ipmitool", c.IPMI.Tool)
	}
}

func TestLoadFromBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ipmi:\n  timeout: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}

func TestResolveCredentials(t *testing.T) {
	c := Default()

	// Defaults when nothing is set
	t.Setenv(EnvUsername, "")
	t.Setenv(EnvPassword, "")
	t.Setenv(EnvUsernameLegacy, "")
	t.Setenv(EnvPasswordLegacy, "")
	user, pass := c.ResolveCredentials()
	if user != DefaultUsername || pass != DefaultPassword {
		t.Errorf("defaults = %q/%q, want %q/%q", user, pass, DefaultUsername, DefaultPassword)
	}

	// Config file beats defaults
	c.IPMI.Username = "operator"
	c.IPMI.Password = "filepass"
	user, pass = c.ResolveCredentials()
	if user != "operator" || pass != "filepass" {
		t.Errorf("config creds = %q/%q", user, pass)
	}

	// Environment beats config file
	t.Setenv(EnvUsername, "envuser")
	t.Setenv(EnvPassword, "envpass")
	user, pass = c.ResolveCredentials()
	if user != "envuser" || pass != "envpass" {
		t.Errorf("env creds = %q/%q", user, pass)
	}
}
