package provision

import (
	"context"
	"time"

	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
)

// probeInterval is the wait between verification probes.
const probeInterval = 5 * time.Second

// verifyReachable polls the BMC at its new address until a LAN print
// answers or the attempt budget derived from VerifyTimeout runs out.
// The attempt count, not wall-clock time, bounds the loop so tests can
// substitute a zero-delay sleep.
func (p *Provisioner) verifyReachable(ctx context.Context, target string) error {
	attempts := int(p.VerifyTimeout/probeInterval) + 1
	if attempts < 1 {
		attempts = 1
	}

	log := util.WithTarget(target)
	for i := 1; i <= attempts; i++ {
		if out := p.Driver.Probe(ctx, target); out.Succeeded {
			log.Infof("BMC answering at new address")
			return nil
		}
		if i < attempts {
			log.Debugf("probe %d/%d failed, retrying", i, attempts)
			p.sleep(probeInterval)
		}
	}
	return &VerifyError{Target: target, Attempts: attempts}
}
