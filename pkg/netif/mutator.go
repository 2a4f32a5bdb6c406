// Package netif mutates local interface addressing through the ip(8)
// binary. One temporary address is added so the host can reach a BMC
// gateway outside its current subnet, and removed when provisioning
// finishes or unwinds.
package netif

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/Projekt-ERROR/IPMIrage/pkg/util"
)

// tempPrefixLen is the prefix length of the temporary address. The
// gateway address itself is assigned, so a /24 covers the BMC's new
// subnet under the usual addressing plan.
const tempPrefixLen = 24

type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Mutator adds and removes the temporary address on a fixed local
// interface. It performs no retries; abort policy belongs to the caller.
type Mutator struct {
	// Interface is the local interface carrying the temporary address.
	Interface string

	run runnerFunc
}

// NewMutator creates a Mutator for the named interface.
func NewMutator(iface string) *Mutator {
	return &Mutator{Interface: iface, run: execRunner}
}

// AddTemporaryAddress assigns gateway/24 to the interface.
func (m *Mutator) AddTemporaryAddress(ctx context.Context, gateway string) error {
	cidr := fmt.Sprintf("%s/%d", gateway, tempPrefixLen)
	out, err := m.run(ctx, "ip", "addr", "add", cidr, "dev", m.Interface)
	if err != nil {
		return fmt.Errorf("add %s to %s: %w (%s)", cidr, m.Interface, err, firstLine(out))
	}
	util.Debugf("netif: added %s to %s", cidr, m.Interface)
	return nil
}

// RemoveTemporaryAddress deletes gateway/24 from the interface. Removal
// of an address that is not present is success, so cleanup can run even
// when the add never fully confirmed.
func (m *Mutator) RemoveTemporaryAddress(ctx context.Context, gateway string) error {
	cidr := fmt.Sprintf("%s/%d", gateway, tempPrefixLen)
	out, err := m.run(ctx, "ip", "addr", "del", cidr, "dev", m.Interface)
	if err != nil {
		if addressNotPresent(out) {
			util.Debugf("netif: %s already absent from %s", cidr, m.Interface)
			return nil
		}
		return fmt.Errorf("remove %s from %s: %w (%s)", cidr, m.Interface, err, firstLine(out))
	}
	util.Debugf("netif: removed %s from %s", cidr, m.Interface)
	return nil
}

// addressNotPresent matches ip(8) stderr for deleting a missing address.
func addressNotPresent(out []byte) bool {
	s := string(out)
	return strings.Contains(s, "Cannot assign requested address") ||
		strings.Contains(s, "Address not found")
}

func firstLine(out []byte) string {
	s := strings.TrimSpace(string(out))
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
