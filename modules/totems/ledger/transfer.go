package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

// Transfer moves amount from one account to another. The caller must be the
// sender or an authorized relay.
//
// Unlimited minters are special on both sides. They may never be credited:
// their balance stands for unbounded latent issuance, not a holding, so it
// must stay zero. When one is the sender, the debit is skipped entirely and
// supply and max supply grow by the amount instead, because an unlimited
// minter transferring out is minting new issuance, not moving existing tokens.
func (l *Ledger) Transfer(ctx context.Context, caller totem.Address, ticker string, from, to totem.Address, amount uint128.Uint128, memo string) (err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	ts, k, err := l.lookupActive(ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := l.authorizeActor(k, caller, from); err != nil {
		return errors.WithStack(err)
	}
	if to.IsNull() {
		return errors.Wrap(errs.InvalidArgument, "recipient must not be the null address")
	}
	if l.state.unlimited[key(k, to)] {
		return errors.WithStack(totem.ErrCannotTransferToUnlimitedMinter)
	}

	switch {
	case from == to:
		// No balance bookkeeping, but the transfer still counts and hooks
		// still fire.
	case l.state.unlimited[key(k, from)]:
		ts.totem.Supply = ts.totem.Supply.Add(amount)
		ts.totem.MaxSupply = ts.totem.MaxSupply.Add(amount)
		l.credit(ts, k, to, amount)
	default:
		if err := l.debit(ts, k, from, amount); err != nil {
			return errors.WithStack(err)
		}
		l.credit(ts, k, to, amount)
	}
	ts.stats.Transfers++
	ts.totem.UpdatedAt = l.now()

	l.emit(ctx, &entity.TotemEvent{
		Kind:   entity.EventKindTransfer,
		Ticker: ts.totem.Details.Ticker,
		Actor:  caller,
		From:   from,
		To:     to,
		Amount: amount,
		Memo:   memo,
	})

	if err := l.dispatchTransfer(ctx, ts.totem.Mods.Transfer, ts.totem.Details.Ticker, from, to, amount, memo); err != nil {
		return errors.WithStack(err)
	}

	logger.DebugContext(ctx, "Transferred totem tokens",
		slogx.String("ticker", ts.totem.Details.Ticker),
		slogx.Stringer("from", from),
		slogx.Stringer("to", to),
		slogx.Stringer("amount", amount),
	)
	return nil
}

// TransferOwnership hands a totem to a new creator. Current creator only; no
// reentrancy guard, matching the other plain mutating operations.
func (l *Ledger) TransferOwnership(ctx context.Context, caller totem.Address, ticker string, newOwner totem.Address) (err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	ts, _, err := l.lookupActive(ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if ts.totem.Creator != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the totem creator")
	}
	if newOwner.IsNull() {
		return errors.Wrap(errs.InvalidArgument, "new owner must not be the null address")
	}

	prevOwner := ts.totem.Creator
	ts.totem.Creator = newOwner
	ts.totem.UpdatedAt = l.now()

	l.emit(ctx, &entity.TotemEvent{
		Kind:   entity.EventKindTransferOwnership,
		Ticker: ts.totem.Details.Ticker,
		Actor:  caller,
		From:   prevOwner,
		To:     newOwner,
	})

	if err := l.dispatchTransferOwnership(ctx, ts.totem.Mods.TransferOwnership, ts.totem.Details.Ticker, prevOwner, newOwner); err != nil {
		return errors.WithStack(err)
	}

	logger.InfoContext(ctx, "Transferred totem ownership",
		slogx.String("ticker", ts.totem.Details.Ticker),
		slogx.Stringer("prevOwner", prevOwner),
		slogx.Stringer("newOwner", newOwner),
	)
	return nil
}
