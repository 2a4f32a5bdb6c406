// Package ipmi wraps the external ipmitool client in a bounded-execution
// driver. It does not implement the IPMI protocol: each command is an
// ipmitool invocation under a fixed timeout, reduced to a success /
// failure / timeout outcome.
package ipmi

import (
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
)

// Credentials is an IPMI username/password pair.
type Credentials struct {
	Username string
	Password string
}

// Outcome describes the result of one remote command. TimedOut
// distinguishes "no response within the bound" from an explicit
// rejection; both are failures for control flow.
type Outcome struct {
	Description string
	Succeeded   bool
	TimedOut    bool
	Output      string
}

// runnerFunc executes a command and returns its combined output.
// Replaced in tests.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Client issues IPMI LAN commands to a single BMC per call.
type Client struct {
	Creds   Credentials
	Tool    string        // ipmitool binary name or path
	Timeout time.Duration // per-command bound

	run runnerFunc
}

// NewClient creates a driver using the given ipmitool binary.
func NewClient(creds Credentials, tool string, timeout time.Duration) *Client {
	return &Client{
		Creds:   creds,
		Tool:    tool,
		Timeout: timeout,
		run:     execRunner,
	}
}

// Run executes one ipmitool command against target over the lanplus
// interface, bounded by the client timeout. The description names the
// step for operator-facing reports.
func (c *Client) Run(ctx context.Context, target, description string, args ...string) Outcome {
	out := Outcome{Description: description}

	// ipmitool's own retransmit budget stays inside our hard bound.
	seconds := int(c.Timeout / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	full := []string{
		"-I", "lanplus",
		"-H", target,
		"-U", c.Creds.Username,
		"-P", c.Creds.Password,
		"-N", strconv.Itoa(seconds),
		"-R", "1",
	}
	full = append(full, args...)

	util.WithTarget(target).Debugf("ipmi: %s %s", c.Tool, strings.Join(redact(full, c.Creds.Password), " "))

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	raw, err := c.run(ctx, c.Tool, full...)
	out.Output = strings.TrimSpace(string(raw))
	if err == nil {
		out.Succeeded = true
		return out
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		out.TimedOut = true
	}
	return out
}

// redact masks the password argument for logging.
func redact(args []string, password string) []string {
	masked := make([]string, len(args))
	for i, a := range args {
		if a == password && password != "" {
			masked[i] = "****"
		} else {
			masked[i] = a
		}
	}
	return masked
}
