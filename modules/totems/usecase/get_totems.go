package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

func (u *Usecase) GetTotem(ticker string) (t totem.Totem, err error) {
	u.journal.View(func() {
		t, err = u.ledger.GetTotem(ticker)
	})
	if err != nil {
		return totem.Totem{}, errors.Wrap(err, "error during GetTotem")
	}
	return t, nil
}

func (u *Usecase) GetTotems(tickers []string) (totems []totem.Totem, err error) {
	u.journal.View(func() {
		totems, err = u.ledger.GetTotems(tickers)
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTotems")
	}
	return totems, nil
}

func (u *Usecase) ListTotems(cursor, limit uint64) (page []totem.Totem, nextCursor uint64, hasMore bool, err error) {
	u.journal.View(func() {
		page, nextCursor, hasMore, err = u.ledger.ListTotems(cursor, limit)
	})
	if err != nil {
		return nil, 0, false, errors.Wrap(err, "error during ListTotems")
	}
	return page, nextCursor, hasMore, nil
}

func (u *Usecase) GetStats(ticker string) (stats totem.TotemStats, err error) {
	u.journal.View(func() {
		stats, err = u.ledger.GetStats(ticker)
	})
	if err != nil {
		return totem.TotemStats{}, errors.Wrap(err, "error during GetStats")
	}
	return stats, nil
}

func (u *Usecase) GetBalance(ticker string, account totem.Address) (balance uint128.Uint128, err error) {
	u.journal.View(func() {
		balance, err = u.ledger.GetBalance(ticker, account)
	})
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "error during GetBalance")
	}
	return balance, nil
}

func (u *Usecase) GetHolders(ticker string) (holders []totem.Balance, err error) {
	u.journal.View(func() {
		holders, err = u.ledger.GetHolders(ticker)
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during GetHolders")
	}
	return holders, nil
}

func (u *Usecase) GetRelays(ticker string) (relays []totem.Relay, err error) {
	u.journal.View(func() {
		relays, err = u.ledger.GetRelays(ticker)
	})
	if err != nil {
		return nil, errors.Wrap(err, "error during GetRelays")
	}
	return relays, nil
}
