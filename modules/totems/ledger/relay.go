package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

// Relays are authorized facade contracts permitted to invoke transfer, burn
// and mint on behalf of arbitrary accounts of one totem. Relay management is
// creator-only.

// CreateRelay deploys a relay through the configured factory capability and
// authorizes it for the totem.
func (l *Ledger) CreateRelay(ctx context.Context, caller totem.Address, ticker string, standard string) (relay totem.Address, err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	ts, k, err := l.lookupActive(ticker)
	if err != nil {
		return totem.NullAddress, errors.WithStack(err)
	}
	if ts.totem.Creator != caller {
		return totem.NullAddress, errors.Wrap(totem.ErrUnauthorized, "caller is not the totem creator")
	}
	if l.relayFactory == nil {
		return totem.NullAddress, errors.Wrap(errs.Unsupported, "no relay factory is configured")
	}

	relay, err = l.relayFactory.CreateRelay(ctx, caller, ts.totem.Details.Ticker)
	if err != nil {
		return totem.NullAddress, errors.Wrap(err, "relay factory failed")
	}
	if err := l.addRelay(ts, k, relay, standard); err != nil {
		return totem.NullAddress, errors.WithStack(err)
	}

	logger.InfoContext(ctx, "Created relay",
		slogx.String("ticker", ts.totem.Details.Ticker),
		slogx.Stringer("relay", relay),
		slogx.String("standard", standard),
	)
	return relay, nil
}

// AddRelay authorizes an already-deployed relay contract for the totem.
func (l *Ledger) AddRelay(ctx context.Context, caller totem.Address, ticker string, relay totem.Address, standard string) (err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	ts, k, err := l.lookupActive(ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if ts.totem.Creator != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the totem creator")
	}
	return errors.WithStack(l.addRelay(ts, k, relay, standard))
}

func (l *Ledger) addRelay(ts *totemState, k totem.TickerKey, relay totem.Address, standard string) error {
	if relay.IsNull() {
		return errors.Wrap(errs.InvalidArgument, "relay address must not be null")
	}
	if l.state.relayAuth[key(k, relay)] {
		return errors.Wrapf(errs.Duplicate, "relay %s is already authorized", relay)
	}
	l.state.relays[k] = append(l.state.relays[k], totem.Relay{Address: relay, Standard: standard})
	l.state.relayAuth[key(k, relay)] = true
	ts.totem.UpdatedAt = l.now()
	return nil
}

// RemoveRelay revokes a relay's authorization via swap-and-pop; relay ordering
// is not preserved across removals. Removing an unknown relay is a no-op.
func (l *Ledger) RemoveRelay(ctx context.Context, caller totem.Address, ticker string, relay totem.Address) (err error) {
	end := l.journal.Begin()
	defer func() { end(&err) }()

	ts, k, err := l.lookupActive(ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if ts.totem.Creator != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the totem creator")
	}

	relays := l.state.relays[k]
	for i, r := range relays {
		if r.Address == relay {
			relays[i] = relays[len(relays)-1]
			l.state.relays[k] = relays[:len(relays)-1]
			break
		}
	}
	delete(l.state.relayAuth, key(k, relay))
	ts.totem.UpdatedAt = l.now()
	return nil
}

// GetRelays returns the relay list of a totem.
func (l *Ledger) GetRelays(ticker string) ([]totem.Relay, error) {
	_, k, err := l.lookup(ticker)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return append([]totem.Relay(nil), l.state.relays[k]...), nil
}

// GetRelayOfStandard scans for a relay carrying the given standard tag and
// returns the null address if none does.
func (l *Ledger) GetRelayOfStandard(ticker string, standard string) (totem.Address, error) {
	_, k, err := l.lookup(ticker)
	if err != nil {
		return totem.NullAddress, errors.WithStack(err)
	}
	for _, r := range l.state.relays[k] {
		if r.Standard == standard {
			return r.Address, nil
		}
	}
	return totem.NullAddress, nil
}

// IsRelay reports whether addr is an authorized relay of the totem.
func (l *Ledger) IsRelay(ticker string, addr totem.Address) bool {
	k := totem.TickerToKey(ticker)
	return l.state.relayAuth[key(k, addr)]
}
