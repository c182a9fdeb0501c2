package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

// Mint requests issuance through a minter mod of the totem. The caller must be
// the minter account itself or an authorized relay. The mod must appear in the
// totem's allocation list as a minter and report itself set up for the ticker.
//
// The returned minted amount is measured as the recipient's balance delta
// across the mod's mint call, never trusted from the mod: a mod may mint less
// than requested, and the ledger records truth, not intent. Mint hooks, by
// contrast, receive the originally requested amount.
func (l *Ledger) Mint(ctx context.Context, caller totem.Address, payment uint128.Uint128, mod, minter totem.Address, ticker string, amount uint128.Uint128, memo string) (minted uint128.Uint128, err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	ts, k, err := l.lookupActive(ticker)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	if err := l.authorizeActor(k, caller, minter); err != nil {
		return uint128.Zero, errors.WithStack(err)
	}

	if !l.isAllocatedMinter(ts, mod) {
		return uint128.Zero, errors.WithStack(totem.ErrModNotMinter{Mod: mod})
	}
	impl, ok := l.registry.Lookup(mod)
	if !ok {
		return uint128.Zero, errors.Wrapf(errs.NotFound, "minter mod %s has no code", mod)
	}
	minterCap, ok := impl.(modkit.Minter)
	if !ok {
		return uint128.Zero, errors.Wrapf(errs.Unsupported, "mod %s does not implement the minter capability", mod)
	}
	ready, err := minterCap.IsSetupFor(ctx, ticker)
	if err != nil {
		return uint128.Zero, errors.Wrapf(err, "setup check of mod %s failed", mod)
	}
	if !ready {
		return uint128.Zero, errors.WithStack(totem.ErrModNotSetup{Mod: mod, Ticker: ticker})
	}

	// Mint stat is counted up front; the measured amount may still be zero.
	ts.stats.Mints++
	ts.totem.UpdatedAt = l.now()

	// Forward the payment to the mod, then measure issuance as the
	// recipient's balance delta across the mint call.
	if err := l.bank.Transfer(caller, mod, payment); err != nil {
		return uint128.Zero, errors.Wrap(err, "failed to forward payment to mod")
	}
	before := l.state.balances[key(k, minter)]
	if err := minterCap.Mint(ctx, l.address, ticker, minter, amount, payment, memo); err != nil {
		return uint128.Zero, errors.Wrapf(err, "minter mod %s failed", mod)
	}
	after := l.state.balances[key(k, minter)]
	minted = uint128.Zero
	if after.Cmp(before) > 0 {
		minted = after.Sub(before)
	}

	l.emit(ctx, &entity.TotemEvent{
		Kind:   entity.EventKindMint,
		Ticker: ts.totem.Details.Ticker,
		Actor:  caller,
		To:     minter,
		Mod:    mod,
		Amount: minted,
		Memo:   memo,
	})

	// Observers receive the requested amount, not the measured delta.
	if err := l.dispatchMint(ctx, ts.totem.Mods.Mint, ts.totem.Details.Ticker, minter, amount, payment, memo); err != nil {
		return uint128.Zero, errors.WithStack(err)
	}

	logger.DebugContext(ctx, "Minted totem tokens",
		slogx.String("ticker", ts.totem.Details.Ticker),
		slogx.Stringer("mod", mod),
		slogx.Stringer("minter", minter),
		slogx.Stringer("requested", amount),
		slogx.Stringer("minted", minted),
	)
	return minted, nil
}

func (l *Ledger) isAllocatedMinter(ts *totemState, mod totem.Address) bool {
	for _, alloc := range ts.totem.Allocations {
		if alloc.IsMinter && alloc.Recipient == mod {
			return true
		}
	}
	return false
}
