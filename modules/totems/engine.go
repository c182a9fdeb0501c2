// Package totems assembles the Totems engine: the journal-backed bank, mod
// market, core ledger, aggregation proxy and relay factory wired together as
// one atomic unit of state.
package totems

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/bank"
	"github.com/totemlabs/totems-engine/modules/totems/ledger"
	"github.com/totemlabs/totems-engine/modules/totems/market"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/proxy"
	"github.com/totemlabs/totems-engine/modules/totems/relay"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/modules/totems/txn"
)

// Engine bundles the protocol contracts sharing one journal.
type Engine struct {
	Journal  *txn.Journal
	Registry *modkit.Registry
	Bank     *bank.Bank
	Market   *market.Market
	Ledger   *ledger.Ledger
	Proxy    *proxy.Proxy
	Relays   *relay.Factory

	// Operator is the bootstrap address that owns the proxy's market entry.
	Operator totem.Address

	cleanupFuncs []func()
}

// OnCleanup registers a function to run when the engine shuts down.
func (e *Engine) OnCleanup(fn func()) {
	e.cleanupFuncs = append(e.cleanupFuncs, fn)
}

func (e *Engine) Shutdown() error {
	for _, fn := range e.cleanupFuncs {
		fn()
	}
	return nil
}

// EngineOptions configure the assembly. Zero value gives launch parameters,
// a no-op event sink and the wall clock.
type EngineOptions struct {
	Params market.Params
	Sink   ledger.EventSink
	Clock  func() time.Time
}

// NewEngine builds and bootstraps a complete engine: contracts constructed,
// proxy registered and published on the market (price zero, its publish fee
// burned by the operator), and the relay factory bound to the ledger.
func NewEngine(ctx context.Context, opts EngineOptions) (*Engine, error) {
	params := opts.Params
	if params.MinBaseFee.IsZero() {
		params = market.DefaultParams()
	}
	sink := opts.Sink
	if sink == nil {
		sink = ledger.NopSink{}
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	journal := txn.NewJournal()
	registry := modkit.NewRegistry()
	bk := bank.New(journal)

	operator := totem.NamedAddress("engine/operator")
	mkt := market.New(totem.NamedAddress("engine/market"), params, registry, bk, journal, market.WithClock(clock))

	relays := relay.NewFactory()
	ldg := ledger.New(totem.NamedAddress("engine/ledger"), mkt, registry, bk, journal,
		ledger.WithClock(clock),
		ledger.WithEventSink(sink),
		ledger.WithRelayFactory(relays),
	)
	relays.Bind(ldg)

	prx := proxy.New(totem.NamedAddress("engine/proxy"), operator, ldg, mkt, registry, bk, journal)
	if err := registry.Register(prx); err != nil {
		return nil, errors.Wrap(err, "failed to register proxy mod")
	}
	if err := ldg.AttachProxy(prx.ModAddress()); err != nil {
		return nil, errors.Wrap(err, "failed to attach proxy mod")
	}

	// The proxy is a published mod like any other; its listing fee comes out
	// of the operator's pocket and is burned.
	bk.Deposit(operator, params.MinBaseFee)
	err := mkt.Publish(ctx, operator, params.MinBaseFee, prx.ModAddress(),
		[]totem.Hook{totem.HookMint, totem.HookBurn, totem.HookTransfer, totem.HookTransferOwnership},
		uint128.Zero,
		totem.ModDetails{
			Name:           "Totems Proxy",
			Summary:        "Attach and detach mods after totem creation.",
			Image:          "ipfs://totems/proxy.png",
			IsMinter:       true,
			NeedsUnlimited: true,
		},
		nil,
		totem.NullAddress,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to publish proxy mod")
	}

	return &Engine{
		Journal:  journal,
		Registry: registry,
		Bank:     bk,
		Market:   mkt,
		Ledger:   ldg,
		Proxy:    prx,
		Relays:   relays,
		Operator: operator,
	}, nil
}
