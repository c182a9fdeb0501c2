package ledger

import (
	"bytes"
	"sort"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// GetTotem returns a totem by ticker.
func (l *Ledger) GetTotem(ticker string) (totem.Totem, error) {
	ts, _, err := l.lookup(ticker)
	if err != nil {
		return totem.Totem{}, errors.WithStack(err)
	}
	return cloneTotem(ts.totem), nil
}

// GetTotems returns the totems for the given tickers. Unlike the market's
// GetMods, the batch is all-or-nothing: any missing ticker fails the call.
func (l *Ledger) GetTotems(tickers []string) ([]totem.Totem, error) {
	result := make([]totem.Totem, 0, len(tickers))
	for _, ticker := range tickers {
		t, err := l.GetTotem(ticker)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		result = append(result, t)
	}
	return result, nil
}

// ListTotems pages through totems in creation order. A cursor at or past the
// list length fails with ErrInvalidCursor; the market's ListMods returns an
// empty page instead. The asymmetry is part of the protocol surface.
func (l *Ledger) ListTotems(cursor, limit uint64) (page []totem.Totem, nextCursor uint64, hasMore bool, err error) {
	length := uint64(len(l.state.order))
	if cursor >= length {
		return nil, 0, false, errors.WithStack(totem.ErrInvalidCursor{Cursor: cursor, Length: length})
	}
	endIdx := cursor + limit
	if limit == 0 || endIdx > length {
		endIdx = length
	}
	page = make([]totem.Totem, 0, endIdx-cursor)
	for _, k := range l.state.order[cursor:endIdx] {
		page = append(page, cloneTotem(l.state.totems[k].totem))
	}
	return page, endIdx, endIdx < length, nil
}

// GetBalance returns an account's balance for a totem.
func (l *Ledger) GetBalance(ticker string, account totem.Address) (uint128.Uint128, error) {
	_, k, err := l.lookup(ticker)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return l.state.balances[key(k, account)], nil
}

// GetStats returns the per-totem counters.
func (l *Ledger) GetStats(ticker string) (totem.TotemStats, error) {
	ts, _, err := l.lookup(ticker)
	if err != nil {
		return totem.TotemStats{}, errors.WithStack(err)
	}
	return ts.stats, nil
}

// GetHolders returns all accounts with a nonzero balance, largest first.
func (l *Ledger) GetHolders(ticker string) ([]totem.Balance, error) {
	_, k, err := l.lookup(ticker)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	holders := make([]totem.Balance, 0)
	for bk, amount := range l.state.balances {
		if bk.ticker == k && !amount.IsZero() {
			holders = append(holders, totem.Balance{Account: bk.account, Amount: amount})
		}
	}
	sort.Slice(holders, func(i, j int) bool {
		if c := holders[i].Amount.Cmp(holders[j].Amount); c != 0 {
			return c > 0
		}
		return bytes.Compare(holders[i].Account[:], holders[j].Account[:]) < 0
	})
	return holders, nil
}

// IsUnlimitedMinter reports whether mod is a registered unlimited minter of
// the totem.
func (l *Ledger) IsUnlimitedMinter(ticker string, mod totem.Address) bool {
	return l.state.unlimited[key(totem.TickerToKey(ticker), mod)]
}
