package txn

import (
	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
)

// Guard is a single-entry reentrancy guard. The protocol guards only its
// payable entry points (create, publish, update, the proxy's addMod); the
// plain mutating operations stay unguarded so mods can legitimately call back
// into the ledger during hook dispatch. Safety there comes from ordering, not
// locking: state is always mutated before hooks are notified.
type Guard struct {
	name    string
	entered bool
}

func NewGuard(name string) Guard {
	return Guard{name: name}
}

// Enter marks the guard entered and returns its release function. A nested
// call while entered fails with errs.Reentrancy.
func (g *Guard) Enter() (func(), error) {
	if g.entered {
		return nil, errors.Wrapf(errs.Reentrancy, "reentrant call into %s", g.name)
	}
	g.entered = true
	return func() { g.entered = false }, nil
}
