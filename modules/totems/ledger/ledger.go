// Package ledger implements the Totems core: per-totem balances, supply and
// stats, licensing, relays, and lifecycle hook dispatch to licensed mods.
//
// Reentrancy policy is intentionally asymmetric. Create is guarded; mint, burn,
// transfer and transferOwnership are not, because mods are expected to call
// back into the ledger during their hooks. The safety property is ordering:
// balances, stats and supply are always mutated before hooks are notified, so
// a reentrant call observes consistent post-mutation state.
package ledger

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/bank"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
	"github.com/totemlabs/totems-engine/modules/totems/market"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/modules/totems/txn"
)

// EventSink receives committed operation events. Sink failures must not abort
// committed operations; implementations log and move on.
type EventSink interface {
	Append(ctx context.Context, event *entity.TotemEvent)
}

// NopSink discards events.
type NopSink struct{}

func (NopSink) Append(context.Context, *entity.TotemEvent) {}

type totemState struct {
	totem totem.Totem
	stats totem.TotemStats
}

type balanceKey struct {
	ticker  totem.TickerKey
	account totem.Address
}

type state struct {
	totems    map[totem.TickerKey]*totemState
	order     []totem.TickerKey
	balances  map[balanceKey]uint128.Uint128
	licenses  map[balanceKey]bool
	unlimited map[balanceKey]bool
	relays    map[totem.TickerKey][]totem.Relay
	relayAuth map[balanceKey]bool
}

// Ledger is the Totems core contract.
type Ledger struct {
	address      totem.Address
	market       *market.Market
	registry     *modkit.Registry
	bank         *bank.Bank
	journal      *txn.Journal
	createGuard  txn.Guard
	relayFactory modkit.RelayFactory
	proxy        totem.Address
	sink         EventSink
	now          func() time.Time
	state        *state
}

type Option func(*Ledger)

// WithClock overrides the ledger's time source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithRelayFactory sets the factory capability used by CreateRelay.
func WithRelayFactory(factory modkit.RelayFactory) Option {
	return func(l *Ledger) { l.relayFactory = factory }
}

// WithEventSink sets the committed-event sink.
func WithEventSink(sink EventSink) Option {
	return func(l *Ledger) { l.sink = sink }
}

func New(address totem.Address, mkt *market.Market, registry *modkit.Registry, bk *bank.Bank, journal *txn.Journal, opts ...Option) *Ledger {
	l := &Ledger{
		address:     address,
		market:      mkt,
		registry:    registry,
		bank:        bk,
		journal:     journal,
		createGuard: txn.NewGuard("ledger.create"),
		sink:        NopSink{},
		now:         time.Now,
		state: &state{
			totems:    make(map[totem.TickerKey]*totemState),
			balances:  make(map[balanceKey]uint128.Uint128),
			licenses:  make(map[balanceKey]bool),
			unlimited: make(map[balanceKey]bool),
			relays:    make(map[totem.TickerKey][]totem.Relay),
			relayAuth: make(map[balanceKey]bool),
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	journal.Register(l)
	return l
}

// Address returns the ledger contract address. Mods authenticate hook origins
// against it.
func (l *Ledger) Address() totem.Address {
	return l.address
}

// AttachProxy designates the aggregation proxy-mod address. Settable once,
// during engine construction.
func (l *Ledger) AttachProxy(proxy totem.Address) error {
	if !l.proxy.IsNull() {
		return errors.Wrap(errs.InvalidState, "proxy mod is already attached")
	}
	if proxy.IsNull() {
		return errors.Wrap(errs.InvalidArgument, "proxy address must not be null")
	}
	l.proxy = proxy
	return nil
}

func key(ticker totem.TickerKey, account totem.Address) balanceKey {
	return balanceKey{ticker: ticker, account: account}
}

// lookup returns the totem state for a raw ticker string.
func (l *Ledger) lookup(ticker string) (*totemState, totem.TickerKey, error) {
	k := totem.TickerToKey(ticker)
	ts, ok := l.state.totems[k]
	if !ok {
		return nil, k, errors.WithStack(totem.ErrTotemNotFound{Ticker: ticker})
	}
	return ts, k, nil
}

// lookupActive is lookup plus the active-state check every mutating operation
// other than create performs.
func (l *Ledger) lookupActive(ticker string) (*totemState, totem.TickerKey, error) {
	ts, k, err := l.lookup(ticker)
	if err != nil {
		return nil, k, err
	}
	if !ts.totem.IsActive {
		return nil, k, errors.WithStack(totem.ErrTotemNotActive)
	}
	return ts, k, nil
}

// authorizeActor checks that the caller is the account itself or an authorized
// relay of the totem.
func (l *Ledger) authorizeActor(k totem.TickerKey, caller, account totem.Address) error {
	if caller == account {
		return nil
	}
	if l.state.relayAuth[key(k, caller)] {
		return nil
	}
	return errors.Wrap(totem.ErrUnauthorized, "caller is neither the account nor an authorized relay")
}

// credit adds amount to an account's balance, maintaining the holder count.
func (l *Ledger) credit(ts *totemState, k totem.TickerKey, account totem.Address, amount uint128.Uint128) {
	if amount.IsZero() {
		return
	}
	bk := key(k, account)
	before := l.state.balances[bk]
	l.state.balances[bk] = before.Add(amount)
	if before.IsZero() {
		ts.stats.Holders++
	}
}

// debit removes amount from an account's balance, maintaining the holder
// count. Fails if the balance cannot cover the amount.
func (l *Ledger) debit(ts *totemState, k totem.TickerKey, account totem.Address, amount uint128.Uint128) error {
	bk := key(k, account)
	before := l.state.balances[bk]
	if before.Cmp(amount) < 0 {
		return errors.WithStack(totem.ErrInsufficientBalance{Required: amount, Available: before})
	}
	after := before.Sub(amount)
	l.state.balances[bk] = after
	if after.IsZero() && !before.IsZero() {
		ts.stats.Holders--
		delete(l.state.balances, bk)
	}
	return nil
}

// emit queues an event for the committed-event sink. Reverted operations drop
// their queued events with the rest of the unit of work.
func (l *Ledger) emit(ctx context.Context, event *entity.TotemEvent) {
	event.Timestamp = l.now()
	l.journal.OnCommit(func() {
		l.sink.Append(ctx, event)
	})
}

func (l *Ledger) Snapshot() any {
	s := &state{
		totems:    make(map[totem.TickerKey]*totemState, len(l.state.totems)),
		order:     append([]totem.TickerKey(nil), l.state.order...),
		balances:  make(map[balanceKey]uint128.Uint128, len(l.state.balances)),
		licenses:  make(map[balanceKey]bool, len(l.state.licenses)),
		unlimited: make(map[balanceKey]bool, len(l.state.unlimited)),
		relays:    make(map[totem.TickerKey][]totem.Relay, len(l.state.relays)),
		relayAuth: make(map[balanceKey]bool, len(l.state.relayAuth)),
	}
	for k, ts := range l.state.totems {
		s.totems[k] = &totemState{totem: cloneTotem(ts.totem), stats: ts.stats}
	}
	for k, v := range l.state.balances {
		s.balances[k] = v
	}
	for k, v := range l.state.licenses {
		s.licenses[k] = v
	}
	for k, v := range l.state.unlimited {
		s.unlimited[k] = v
	}
	for k, v := range l.state.relays {
		s.relays[k] = append([]totem.Relay(nil), v...)
	}
	for k, v := range l.state.relayAuth {
		s.relayAuth[k] = v
	}
	return s
}

func (l *Ledger) Restore(snapshot any) {
	l.state = snapshot.(*state)
}

func cloneTotem(t totem.Totem) totem.Totem {
	clone := t
	clone.Allocations = append([]totem.Allocation(nil), t.Allocations...)
	clone.Mods = totem.ModList{
		Created:           append([]totem.Address(nil), t.Mods.Created...),
		Mint:              append([]totem.Address(nil), t.Mods.Mint...),
		Burn:              append([]totem.Address(nil), t.Mods.Burn...),
		Transfer:          append([]totem.Address(nil), t.Mods.Transfer...),
		TransferOwnership: append([]totem.Address(nil), t.Mods.TransferOwnership...),
	}
	return clone
}
