package provision

import (
	"fmt"

	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
)

// RemoteError represents a failed or timed-out remote command.
type RemoteError struct {
	Step     string // human-readable step description
	TimedOut bool
	Output   string // trimmed ipmitool output, may be empty
}

func (e *RemoteError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("%s: no response from BMC within timeout", e.Step)
	}
	msg := fmt.Sprintf("%s: remote command failed", e.Step)
	if e.Output != "" {
		msg += ": " + e.Output
	}
	return msg
}

func (e *RemoteError) Unwrap() error {
	if e.TimedOut {
		return util.ErrRemoteTimeout
	}
	return util.ErrRemoteCommand
}

// RouteError represents a failed local route mutation.
type RouteError struct {
	Op  string // "add" or "remove"
	Err error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("temporary route %s: %v", e.Op, e.Err)
}

func (e *RouteError) Unwrap() error {
	return util.ErrLocalRoute
}

// VerifyError represents a BMC that never answered at its new address
// during post-reset verification.
type VerifyError struct {
	Target   string
	Attempts int
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("BMC did not answer at %s after %d probe attempts", e.Target, e.Attempts)
}

func (e *VerifyError) Unwrap() error {
	return util.ErrVerify
}
