// Package bank is the native-value ledger backing payable operations: creation
// and publish fees, mod prices, referral payouts and the protocol burn sink.
package bank

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/modules/totems/txn"
)

// Bank tracks native balances per address. Burned value leaves circulation and
// is only visible through TotalBurned.
type Bank struct {
	balances    map[totem.Address]uint128.Uint128
	totalBurned uint128.Uint128
}

func New(journal *txn.Journal) *Bank {
	b := &Bank{
		balances: make(map[totem.Address]uint128.Uint128),
	}
	journal.Register(b)
	return b
}

// Deposit credits an address out of thin air. Genesis/test funding only.
func (b *Bank) Deposit(addr totem.Address, amount uint128.Uint128) {
	b.balances[addr] = b.balances[addr].Add(amount)
}

func (b *Bank) Balance(addr totem.Address) uint128.Uint128 {
	return b.balances[addr]
}

func (b *Bank) TotalBurned() uint128.Uint128 {
	return b.totalBurned
}

// Transfer moves native value between addresses. A zero amount is a no-op.
func (b *Bank) Transfer(from, to totem.Address, amount uint128.Uint128) error {
	if amount.IsZero() {
		return nil
	}
	available := b.balances[from]
	if available.Cmp(amount) < 0 {
		return errors.WithStack(totem.ErrInsufficientBalance{Required: amount, Available: available})
	}
	b.balances[from] = available.Sub(amount)
	b.balances[to] = b.balances[to].Add(amount)
	return nil
}

// Burn destroys native value held by from.
func (b *Bank) Burn(from totem.Address, amount uint128.Uint128) error {
	if amount.IsZero() {
		return nil
	}
	available := b.balances[from]
	if available.Cmp(amount) < 0 {
		return errors.WithStack(totem.ErrInsufficientBalance{Required: amount, Available: available})
	}
	b.balances[from] = available.Sub(amount)
	b.totalBurned = b.totalBurned.Add(amount)
	return nil
}

type snapshot struct {
	balances    map[totem.Address]uint128.Uint128
	totalBurned uint128.Uint128
}

func (b *Bank) Snapshot() any {
	balances := make(map[totem.Address]uint128.Uint128, len(b.balances))
	for addr, amount := range b.balances {
		balances[addr] = amount
	}
	return snapshot{balances: balances, totalBurned: b.totalBurned}
}

func (b *Bank) Restore(snap any) {
	s := snap.(snapshot)
	b.balances = s.balances
	b.totalBurned = s.totalBurned
}
