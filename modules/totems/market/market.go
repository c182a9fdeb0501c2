// Package market implements the mod registry: publishing, pricing and
// licensing-fee queries for third-party extension mods.
package market

import (
	"time"

	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/bank"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/modules/totems/txn"
)

// Params are the protocol fee parameters shared by the market and the ledger.
type Params struct {
	// MinBaseFee is the floor of every creation and publish fee, in native
	// units (wei scale).
	MinBaseFee uint128.Uint128

	// BurnedFee is the slice of a referred fee that is burned instead of paid
	// to the referrer.
	BurnedFee uint128.Uint128
}

// DefaultParams returns the launch parameters: 0.0005 ether minimum base fee,
// 0.0001 ether burned slice.
func DefaultParams() Params {
	return Params{
		MinBaseFee: uint128.From64(500_000_000_000_000),
		BurnedFee:  uint128.From64(100_000_000_000_000),
	}
}

type state struct {
	mods         map[totem.Address]*totem.Mod
	order        []totem.Address
	referrerFees map[totem.Address]uint128.Uint128
}

// Market stores published mods and computes creation/licensing fees. It is
// independent of the ledger except for the read-only queries the ledger
// issues into it.
type Market struct {
	address  totem.Address
	params   Params
	registry *modkit.Registry
	bank     *bank.Bank
	journal  *txn.Journal
	guard    txn.Guard
	now      func() time.Time
	state    *state
}

type Option func(*Market)

// WithClock overrides the market's time source.
func WithClock(now func() time.Time) Option {
	return func(m *Market) { m.now = now }
}

func New(address totem.Address, params Params, registry *modkit.Registry, bk *bank.Bank, journal *txn.Journal, opts ...Option) *Market {
	m := &Market{
		address:  address,
		params:   params,
		registry: registry,
		bank:     bk,
		journal:  journal,
		guard:    txn.NewGuard("market"),
		now:      time.Now,
		state: &state{
			mods:         make(map[totem.Address]*totem.Mod),
			referrerFees: make(map[totem.Address]uint128.Uint128),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	journal.Register(m)
	return m
}

// Address returns the market contract address.
func (m *Market) Address() totem.Address {
	return m.address
}

// Params returns the protocol fee parameters.
func (m *Market) Params() Params {
	return m.params
}

func cloneMod(mod *totem.Mod) *totem.Mod {
	clone := *mod
	clone.Hooks = append([]totem.Hook(nil), mod.Hooks...)
	clone.RequiredActions = cloneRequiredActions(mod.RequiredActions)
	return &clone
}

func cloneRequiredActions(actions []totem.RequiredAction) []totem.RequiredAction {
	if actions == nil {
		return nil
	}
	cloned := make([]totem.RequiredAction, len(actions))
	for i, action := range actions {
		cloned[i] = action
		cloned[i].Inputs = append([]totem.ActionInput(nil), action.Inputs...)
	}
	return cloned
}

func (m *Market) Snapshot() any {
	mods := make(map[totem.Address]*totem.Mod, len(m.state.mods))
	for addr, mod := range m.state.mods {
		mods[addr] = cloneMod(mod)
	}
	referrerFees := make(map[totem.Address]uint128.Uint128, len(m.state.referrerFees))
	for addr, fee := range m.state.referrerFees {
		referrerFees[addr] = fee
	}
	return &state{
		mods:         mods,
		order:        append([]totem.Address(nil), m.state.order...),
		referrerFees: referrerFees,
	}
}

func (m *Market) Restore(snapshot any) {
	m.state = snapshot.(*state)
}
