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

// Burn destroys amount of owner's balance, shrinking both supply and max
// supply. The caller must be the owner or an authorized relay.
func (l *Ledger) Burn(ctx context.Context, caller totem.Address, ticker string, owner totem.Address, amount uint128.Uint128, memo string) (err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	ts, k, err := l.lookupActive(ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := l.authorizeActor(k, caller, owner); err != nil {
		return errors.WithStack(err)
	}

	if err := l.debit(ts, k, owner, amount); err != nil {
		return errors.WithStack(err)
	}
	ts.totem.Supply = ts.totem.Supply.Sub(amount)
	ts.totem.MaxSupply = ts.totem.MaxSupply.Sub(amount)
	ts.stats.Burns++
	ts.totem.UpdatedAt = l.now()

	l.emit(ctx, &entity.TotemEvent{
		Kind:   entity.EventKindBurn,
		Ticker: ts.totem.Details.Ticker,
		Actor:  caller,
		From:   owner,
		Amount: amount,
		Memo:   memo,
	})

	if err := l.dispatchBurn(ctx, ts.totem.Mods.Burn, ts.totem.Details.Ticker, owner, amount, memo); err != nil {
		return errors.WithStack(err)
	}

	logger.DebugContext(ctx, "Burned totem tokens",
		slogx.String("ticker", ts.totem.Details.Ticker),
		slogx.Stringer("owner", owner),
		slogx.Stringer("amount", amount),
	)
	return nil
}
