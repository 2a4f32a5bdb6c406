package provision

import (
	"time"

	"github.com/Projekt-ERROR/IPMIrage/pkg/ipmi"
	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
)

// State identifies where a provisioning run is in its forward walk.
type State int

const (
	StateIdle State = iota
	StateIPSourceSet
	StateIPAddressSet
	StateTempRouteAdded
	StateNetmaskSet
	StateGatewaySet
	StateReset
	StateRestored // terminal success
	StateAborting // unwinding after a failure
)

var stateNames = map[State]string{
	StateIdle:           "idle",
	StateIPSourceSet:    "ip-source-set",
	StateIPAddressSet:   "ip-address-set",
	StateTempRouteAdded: "temp-route-added",
	StateNetmaskSet:     "netmask-set",
	StateGatewaySet:     "gateway-set",
	StateReset:          "reset",
	StateRestored:       "restored",
	StateAborting:       "aborting",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Request describes one provisioning run. All four addresses are
// required; format problems beyond presence surface as remote command
// failures.
type Request struct {
	CurrentAddr string // address the BMC answers at now
	NewAddr     string // static address to assign
	Netmask     string // dotted-quad netmask
	Gateway     string // default gateway, also the temporary local address
}

// Validate checks that all required fields are present.
func (r Request) Validate() error {
	var v util.ValidationBuilder
	v.Add(r.CurrentAddr != "", "current address is required")
	v.Add(r.NewAddr != "", "new static address is required")
	v.Add(r.Netmask != "", "netmask is required")
	v.Add(r.Gateway != "", "gateway is required")
	return v.Build()
}

// StepResult records the outcome of one executed step.
type StepResult struct {
	Name     string
	State    State        // state after the step was applied
	Outcome  ipmi.Outcome // zero value for local steps
	Err      error
	Advisory bool // failure was downgraded to a warning
}

// Result summarizes a finished run.
type Result struct {
	State       State
	Steps       []StepResult
	RolledBack  bool  // temporary route removed on the abort path
	RollbackErr error // removal failed during cleanup (never masks the run error)
	Warnings    []string
	Duration    time.Duration
}
