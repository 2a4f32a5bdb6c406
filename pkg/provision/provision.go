// Package provision implements the BMC static-IP provisioning state
// machine. A run walks a fixed ordered step list: address-family
// commands against the BMC's current address, a temporary local address
// so the host can reach the BMC's new subnet, the remaining commands
// against the new address, and a BMC reset. Any failure after the
// temporary address exists removes it before the run terminates.
package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/Projekt-ERROR/IPMIrage/pkg/ipmi"
	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
)

// rollbackTimeout bounds the cleanup route removal. Cleanup runs on a
// fresh context so cancellation of the run cannot strand the route.
const rollbackTimeout = 30 * time.Second

// RemoteDriver issues the BMC configuration commands.
type RemoteDriver interface {
	SetIPSourceStatic(ctx context.Context, target string) ipmi.Outcome
	SetIPAddress(ctx context.Context, target, addr string) ipmi.Outcome
	SetNetmask(ctx context.Context, target, netmask string) ipmi.Outcome
	SetGateway(ctx context.Context, target, gateway string) ipmi.Outcome
	Reset(ctx context.Context, target string) ipmi.Outcome
	Probe(ctx context.Context, target string) ipmi.Outcome
}

// RouteMutator adds and removes the temporary local address.
type RouteMutator interface {
	AddTemporaryAddress(ctx context.Context, gateway string) error
	RemoveTemporaryAddress(ctx context.Context, gateway string) error
}

// Provisioner executes provisioning runs. Zero-value policy fields give
// the reference behavior: reset failure is advisory, no post-reset
// verification.
type Provisioner struct {
	Driver  RemoteDriver
	Mutator RouteMutator

	// SettleDelay is the bounded wait after the temporary address is
	// added, before commands target the BMC's new address.
	SettleDelay time.Duration

	// Sleep is the delay implementation; nil means time.Sleep. Tests
	// substitute a recorder so the contract stays "wait before
	// proceeding" without real time passing.
	Sleep func(time.Duration)

	// StrictReset escalates a failed BMC reset from warning to fatal.
	StrictReset bool

	// Verify probes the BMC at its new address after the run completes.
	Verify        bool
	VerifyTimeout time.Duration

	// OnStep, when set, receives each step result as it happens.
	OnStep func(StepResult)
}

// run holds the mutable state of one provisioning attempt. The
// temporary-route flag lives here, owned by the run, so the rollback
// decision is a function of run state alone.
type run struct {
	req       Request
	state     State
	tempRoute bool // TemporaryRouteState
	result    *Result
}

// step is one entry in the ordered plan.
type step struct {
	name        string
	next        State // state entered on success
	advisory    bool  // failure warns instead of aborting
	marksRoute  bool  // success sets the temporary-route flag
	settleAfter bool  // sleep SettleDelay after success
	run         func(ctx context.Context) (ipmi.Outcome, error)
}

// remoteStep wraps a driver call, converting a failed outcome into a
// typed RemoteError.
func remoteStep(name string, next State, call func(ctx context.Context) ipmi.Outcome) step {
	return step{
		name: name,
		next: next,
		run: func(ctx context.Context) (ipmi.Outcome, error) {
			out := call(ctx)
			if !out.Succeeded {
				return out, &RemoteError{Step: out.Description, TimedOut: out.TimedOut, Output: out.Output}
			}
			return out, nil
		},
	}
}

// plan builds the ordered step list for one request. The first two
// remote commands target the current address; after the temporary route
// exists, commands target the new address.
func (p *Provisioner) plan(req Request) []step {
	steps := []step{
		remoteStep(ipmi.DescSetIPSource, StateIPSourceSet, func(ctx context.Context) ipmi.Outcome {
			return p.Driver.SetIPSourceStatic(ctx, req.CurrentAddr)
		}),
		remoteStep(ipmi.DescSetIPAddr, StateIPAddressSet, func(ctx context.Context) ipmi.Outcome {
			return p.Driver.SetIPAddress(ctx, req.CurrentAddr, req.NewAddr)
		}),
		{
			name:        "Adding temporary local route",
			next:        StateTempRouteAdded,
			marksRoute:  true,
			settleAfter: true,
			run: func(ctx context.Context) (ipmi.Outcome, error) {
				if err := p.Mutator.AddTemporaryAddress(ctx, req.Gateway); err != nil {
					return ipmi.Outcome{}, &RouteError{Op: "add", Err: err}
				}
				return ipmi.Outcome{Description: "Adding temporary local route", Succeeded: true}, nil
			},
		},
		remoteStep(ipmi.DescSetNetmask, StateNetmaskSet, func(ctx context.Context) ipmi.Outcome {
			return p.Driver.SetNetmask(ctx, req.NewAddr, req.Netmask)
		}),
		remoteStep(ipmi.DescSetGateway, StateGatewaySet, func(ctx context.Context) ipmi.Outcome {
			return p.Driver.SetGateway(ctx, req.NewAddr, req.Gateway)
		}),
	}

	reset := remoteStep(ipmi.DescReset, StateReset, func(ctx context.Context) ipmi.Outcome {
		return p.Driver.Reset(ctx, req.NewAddr)
	})
	// Reset failure is advisory unless strict mode: the configuration is
	// presumed applied, and the route removal runs either way.
	reset.advisory = !p.StrictReset
	return append(steps, reset)
}

// Provision executes one run. The returned Result is non-nil whenever
// any step executed; on failure the error identifies the failed step and
// the Result carries the full step history.
func (p *Provisioner) Provision(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	r := &run{req: req, state: StateIdle, result: &Result{}}
	log := util.WithTarget(req.CurrentAddr)
	log.Infof("provisioning BMC to static address %s", req.NewAddr)

	var runErr error
	for _, st := range p.plan(req) {
		outcome, err := st.run(ctx)
		sr := StepResult{Name: st.name, Outcome: outcome, Err: err}

		if err != nil && st.advisory {
			sr.Advisory = true
			sr.State = r.state
			r.record(sr, p.OnStep)
			warning := fmt.Sprintf("%s failed (configuration may still be applied): %v", st.name, err)
			r.result.Warnings = append(r.result.Warnings, warning)
			util.Warnf("%s", warning)
			continue
		}
		if err != nil {
			r.state = StateAborting
			sr.State = StateAborting
			r.record(sr, p.OnStep)
			runErr = err
			break
		}

		r.state = st.next
		sr.State = st.next
		if st.marksRoute {
			r.tempRoute = true
		}
		r.record(sr, p.OnStep)
		util.WithStep(st.name).Debugf("state now %s", r.state)

		if st.settleAfter {
			log.Infof("waiting %s for the BMC to apply its new address", p.SettleDelay)
			p.sleep(p.SettleDelay)
		}
	}

	// Compensating action: the temporary route is removed whether the
	// walk completed or aborted, as long as it was ever added.
	p.restore(r, runErr)

	r.result.State = r.state
	r.result.Duration = time.Since(start)
	if runErr != nil {
		return r.result, runErr
	}

	if p.Verify {
		if err := p.verifyReachable(ctx, req.NewAddr); err != nil {
			return r.result, err
		}
	}
	log.Infof("provisioning complete: BMC static address is %s", req.NewAddr)
	return r.result, nil
}

// restore removes the temporary route if the run added it. A removal
// failure is logged and recorded but never replaces the run's error.
func (p *Provisioner) restore(r *run, runErr error) {
	if !r.tempRoute {
		if runErr == nil {
			r.state = StateRestored
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), rollbackTimeout)
	defer cancel()

	if err := p.Mutator.RemoveTemporaryAddress(ctx, r.req.Gateway); err != nil {
		r.result.RollbackErr = fmt.Errorf("%w: %v", util.ErrRollback, err)
		util.Warnf("temporary route removal failed, interface may need manual cleanup: %v", err)
		return
	}

	r.tempRoute = false
	if runErr != nil {
		r.result.RolledBack = true
		util.Infof("temporary route removed after failure")
	} else {
		r.state = StateRestored
	}
}

func (r *run) record(sr StepResult, onStep func(StepResult)) {
	r.result.Steps = append(r.result.Steps, sr)
	if onStep != nil {
		onStep(sr)
	}
}

func (p *Provisioner) sleep(d time.Duration) {
	if p.Sleep != nil {
		p.Sleep(d)
		return
	}
	time.Sleep(d)
}
