package modkit

import (
	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// Registry maps addresses to deployed capability objects. It is the engine's
// notion of "has executable code": an address is callable iff it is
// registered. The registry is part of the execution environment, not protocol
// state, so it does not participate in the transaction journal.
type Registry struct {
	mods map[totem.Address]Mod
}

func NewRegistry() *Registry {
	return &Registry{
		mods: make(map[totem.Address]Mod),
	}
}

// Register deploys a mod at its address.
func (r *Registry) Register(m Mod) error {
	addr := m.ModAddress()
	if addr.IsNull() {
		return errors.Wrap(errs.InvalidArgument, "cannot register the null address")
	}
	if _, ok := r.mods[addr]; ok {
		return errors.Wrapf(errs.Duplicate, "address %s is already registered", addr)
	}
	r.mods[addr] = m
	return nil
}

// Lookup returns the mod deployed at addr.
func (r *Registry) Lookup(addr totem.Address) (Mod, bool) {
	m, ok := r.mods[addr]
	return m, ok
}

// Exists reports whether addr has code.
func (r *Registry) Exists(addr totem.Address) bool {
	_, ok := r.mods[addr]
	return ok
}
