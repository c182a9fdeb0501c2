package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

// Create registers a new totem: validates details and allocations, licenses
// the attached mods, collects the creation fee, processes initial allocations
// and dispatches created hooks.
//
// The totem stays inactive while created hooks run: a hook that tries to
// mint, burn or transfer this totem during dispatch fails with
// ErrTotemNotActive. Only after dispatch completes does the totem activate.
// This inactive window is a deliberate reentrancy boundary and must hold.
func (l *Ledger) Create(ctx context.Context, caller totem.Address, payment uint128.Uint128, details totem.TotemDetails, allocations []totem.Allocation, mods totem.ModList, referrer totem.Address) (err error) {
	release, err := l.createGuard.Enter()
	if err != nil {
		return errors.WithStack(err)
	}
	defer release()

	end := l.journal.Begin()
	defer func() { end(&err) }()

	if err := details.Validate(); err != nil {
		return errors.WithStack(err)
	}
	k := totem.TickerToKey(details.Ticker)
	if _, exists := l.state.totems[k]; exists {
		return errors.WithStack(totem.ErrTotemAlreadyExists{Ticker: details.Ticker})
	}
	if len(allocations) > totem.MaxAllocations {
		return errors.WithStack(totem.ErrTooManyAllocations{Count: len(allocations)})
	}
	if mods.Count() > totem.MaxMods {
		return errors.WithStack(totem.ErrTooManyMods{Count: mods.Count()})
	}

	now := l.now()
	ts := &totemState{
		totem: totem.Totem{
			Creator:     caller,
			CreatedAt:   now,
			UpdatedAt:   now,
			IsActive:    false,
			Allocations: append([]totem.Allocation(nil), allocations...),
			Mods:        mods,
			Details:     details,
		},
	}
	l.state.totems[k] = ts
	l.state.order = append(l.state.order, k)

	// Every listed mod must declare support for the hook list it appears in.
	for _, hook := range totem.Hooks {
		for _, mod := range mods.ForHook(hook) {
			supported, err := l.market.GetSupportedHooks(mod)
			if err != nil {
				return errors.WithStack(err)
			}
			if !containsHook(supported, hook) {
				return errors.WithStack(totem.ErrModDoesntSupportHook{Mod: mod, Hook: hook})
			}
		}
	}

	// License each unique mod and collect its price for disbursement.
	var disbursements []totem.FeeDisbursement
	modsFee := uint128.Zero
	for _, mod := range mods.Unique() {
		l.state.licenses[key(k, mod)] = true
		entry, err := l.market.GetMod(mod)
		if err != nil {
			return errors.WithStack(err)
		}
		if !entry.Price.IsZero() {
			disbursements = append(disbursements, totem.FeeDisbursement{Recipient: entry.Seller, Amount: entry.Price})
			modsFee = modsFee.Add(entry.Price)
		}
	}

	baseFee := l.market.GetFee(referrer)
	totalFee := modsFee.Add(baseFee)
	if payment.Cmp(totalFee) < 0 {
		return errors.WithStack(totem.ErrInsufficientFee{Required: totalFee, Provided: payment})
	}

	if err := l.processAllocations(ts, k, allocations); err != nil {
		return errors.WithStack(err)
	}
	if ts.totem.MaxSupply.IsZero() && !ts.totem.HasUnlimitedMinters {
		return errors.WithStack(totem.ErrZeroSupply)
	}

	// Collect payment, pay mod sellers, split the base fee between the burn
	// sink and the referrer, and refund the excess in one atomic step.
	if err := l.bank.Transfer(caller, l.address, payment); err != nil {
		return errors.Wrap(err, "failed to collect payment")
	}
	for _, d := range disbursements {
		if err := l.bank.Transfer(l.address, d.Recipient, d.Amount); err != nil {
			return errors.Wrap(err, "failed to pay mod seller")
		}
	}
	if err := l.disburseBaseFee(referrer, baseFee); err != nil {
		return errors.WithStack(err)
	}
	if err := l.bank.Transfer(l.address, caller, payment.Sub(totalFee)); err != nil {
		return errors.Wrap(err, "failed to refund excess payment")
	}

	l.emit(ctx, &entity.TotemEvent{
		Kind:   entity.EventKindCreated,
		Ticker: details.Ticker,
		Actor:  caller,
		Amount: ts.totem.Supply,
	})

	// Created hooks run while the totem is still inactive. A hook may make
	// nested ledger calls that revert and swap l.state, so the activation
	// flip must go through the current state, not the pre-dispatch pointer.
	if err := l.dispatchCreated(ctx, mods.Created, details.Ticker, caller); err != nil {
		return errors.WithStack(err)
	}
	l.state.totems[k].totem.IsActive = true

	logger.InfoContext(ctx, "Created totem",
		slogx.String("ticker", details.Ticker),
		slogx.Stringer("creator", caller),
		slogx.Stringer("supply", l.state.totems[k].totem.Supply),
	)
	return nil
}

// processAllocations applies the initial allocation list. Plain allocations
// credit balances directly; minter allocations designate Market-registered
// minter mods, with a zero amount registering an unlimited minter.
func (l *Ledger) processAllocations(ts *totemState, k totem.TickerKey, allocations []totem.Allocation) error {
	for i, alloc := range allocations {
		if alloc.Recipient.IsNull() {
			return errors.WithStack(totem.ErrInvalidAllocation{Index: i, Reason: "recipient is the null address"})
		}
		if alloc.IsMinter {
			entry, err := l.market.GetMod(alloc.Recipient)
			if err != nil || !entry.Details.IsMinter {
				return errors.WithStack(totem.ErrInvalidAllocation{Index: i, Reason: "recipient is not a registered minter mod"})
			}
			if alloc.Amount.IsZero() {
				if !entry.Details.NeedsUnlimited {
					return errors.WithStack(totem.ErrInvalidAllocation{Index: i, Reason: "zero-amount minter must declare needsUnlimited"})
				}
				l.state.unlimited[key(k, alloc.Recipient)] = true
				ts.totem.HasUnlimitedMinters = true
				continue
			}
			if entry.Details.NeedsUnlimited {
				return errors.WithStack(totem.ErrInvalidAllocation{Index: i, Reason: "unlimited minter must be allocated zero"})
			}
		} else if alloc.Amount.IsZero() {
			return errors.WithStack(totem.ErrInvalidAllocation{Index: i, Reason: "amount must not be zero"})
		}

		l.credit(ts, k, alloc.Recipient, alloc.Amount)
		ts.totem.Supply = ts.totem.Supply.Add(alloc.Amount)
		ts.totem.MaxSupply = ts.totem.MaxSupply.Add(alloc.Amount)
		ts.stats.Mints++
	}
	return nil
}

func containsHook(hooks []totem.Hook, hook totem.Hook) bool {
	for _, h := range hooks {
		if h == hook {
			return true
		}
	}
	return false
}

// disburseBaseFee mirrors the market's publish-fee split: with a referrer the
// burned slice goes to the sink and the remainder to the referrer; with no
// referrer the whole base fee is burned.
func (l *Ledger) disburseBaseFee(referrer totem.Address, fee uint128.Uint128) error {
	params := l.market.Params()
	if referrer.IsNull() {
		if err := l.bank.Burn(l.address, fee); err != nil {
			return errors.Wrap(err, "failed to burn base fee")
		}
		return nil
	}
	if err := l.bank.Burn(l.address, params.BurnedFee); err != nil {
		return errors.Wrap(err, "failed to burn fee slice")
	}
	if err := l.bank.Transfer(l.address, referrer, fee.Sub(params.BurnedFee)); err != nil {
		return errors.Wrap(err, "failed to pay referrer")
	}
	return nil
}
