// Package proxy implements the aggregation mod: a single pass-through mod that
// lets a totem attach and detach sub-mods after creation without redeploying
// the core. It plays by the same hook rules as any other mod, fanning each
// received hook out to the sub-mods enabled for that ticker and hook kind.
package proxy

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/bank"
	"github.com/totemlabs/totems-engine/modules/totems/ledger"
	"github.com/totemlabs/totems-engine/modules/totems/market"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/modules/totems/txn"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

type hookKey struct {
	ticker totem.TickerKey
	hook   totem.Hook
	mod    totem.Address
}

type listKey struct {
	ticker totem.TickerKey
	hook   totem.Hook
}

type state struct {
	enabled map[hookKey]bool
	lists   map[listKey][]totem.Address
}

// Proxy is the aggregation mod contract.
type Proxy struct {
	address  totem.Address
	owner    totem.Address
	ledger   *ledger.Ledger
	market   *market.Market
	registry *modkit.Registry
	bank     *bank.Bank
	journal  *txn.Journal
	guard    txn.Guard
	now      func() time.Time
	state    *state
}

var (
	_ modkit.Mod                 = (*Proxy)(nil)
	_ modkit.OnMint              = (*Proxy)(nil)
	_ modkit.OnBurn              = (*Proxy)(nil)
	_ modkit.OnTransfer          = (*Proxy)(nil)
	_ modkit.OnTransferOwnership = (*Proxy)(nil)
	_ modkit.Minter              = (*Proxy)(nil)
)

func New(address, owner totem.Address, ldg *ledger.Ledger, mkt *market.Market, registry *modkit.Registry, bk *bank.Bank, journal *txn.Journal) *Proxy {
	p := &Proxy{
		address:  address,
		owner:    owner,
		ledger:   ldg,
		market:   mkt,
		registry: registry,
		bank:     bk,
		journal:  journal,
		guard:    txn.NewGuard("proxy.addMod"),
		now:      time.Now,
		state: &state{
			enabled: make(map[hookKey]bool),
			lists:   make(map[listKey][]totem.Address),
		},
	}
	journal.Register(p)
	return p
}

func (p *Proxy) ModAddress() totem.Address {
	return p.address
}

func (p *Proxy) GetSeller() totem.Address {
	return p.owner
}

// AddMod enables a sub-mod for one hook kind of a totem. Creator only. The
// first attach of an unlicensed mod charges its market price plus the base
// fee and grants the license through the ledger; later attaches of the same
// mod to other hooks are free and must carry no payment.
func (p *Proxy) AddMod(ctx context.Context, caller totem.Address, payment uint128.Uint128, ticker string, hook totem.Hook, mod totem.Address, referrer totem.Address) (err error) {
	release, err := p.guard.Enter()
	if err != nil {
		return errors.WithStack(err)
	}
	defer release()

	end := p.journal.Begin()
	defer func() { end(&err) }()

	if hook == totem.HookCreated {
		// Created hooks fire before the proxy can possibly be licensed.
		return errors.WithStack(totem.ErrCantUseCreatedHook)
	}
	if !hook.IsValid() {
		return errors.Wrapf(errs.InvalidArgument, "invalid hook value %d", hook)
	}

	t, err := p.ledger.GetTotem(ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if t.Creator != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the totem creator")
	}

	supported, err := p.market.GetSupportedHooks(mod)
	if err != nil {
		return errors.WithStack(err)
	}
	if !containsHook(supported, hook) {
		return errors.WithStack(totem.ErrModDoesntSupportHook{Mod: mod, Hook: hook})
	}

	k := totem.TickerToKey(ticker)
	hk := hookKey{ticker: k, hook: hook, mod: mod}
	if p.state.enabled[hk] {
		return errors.Wrapf(errs.Duplicate, "mod %s is already enabled for the %s hook", mod, hook)
	}

	if !p.ledger.IsLicensed(ticker, mod) {
		if err := p.chargeLicense(ctx, caller, payment, ticker, mod, referrer); err != nil {
			return errors.WithStack(err)
		}
	} else if !payment.IsZero() {
		return errors.WithStack(totem.ErrNoFeeRequired)
	}

	p.state.enabled[hk] = true
	lk := listKey{ticker: k, hook: hook}
	p.state.lists[lk] = append(p.state.lists[lk], mod)

	logger.InfoContext(ctx, "Attached mod through proxy",
		slogx.String("ticker", ticker),
		slogx.Stringer("mod", mod),
		slogx.Stringer("hook", hook),
	)
	return nil
}

// chargeLicense collects the mod price plus the base fee, pays the seller and
// the referrer, burns the protocol slice, grants the license, and refunds any
// excess payment.
func (p *Proxy) chargeLicense(ctx context.Context, caller totem.Address, payment uint128.Uint128, ticker string, mod totem.Address, referrer totem.Address) error {
	entry, err := p.market.GetMod(mod)
	if err != nil {
		return errors.WithStack(err)
	}
	baseFee := p.market.GetFee(referrer)
	total := entry.Price.Add(baseFee)
	if payment.Cmp(total) < 0 {
		return errors.WithStack(totem.ErrInsufficientFee{Required: total, Provided: payment})
	}

	if err := p.bank.Transfer(caller, p.address, payment); err != nil {
		return errors.Wrap(err, "failed to collect payment")
	}
	if err := p.bank.Transfer(p.address, entry.Seller, entry.Price); err != nil {
		return errors.Wrap(err, "failed to pay mod seller")
	}
	params := p.market.Params()
	if referrer.IsNull() {
		if err := p.bank.Burn(p.address, baseFee); err != nil {
			return errors.Wrap(err, "failed to burn base fee")
		}
	} else {
		if err := p.bank.Burn(p.address, params.BurnedFee); err != nil {
			return errors.Wrap(err, "failed to burn fee slice")
		}
		if err := p.bank.Transfer(p.address, referrer, baseFee.Sub(params.BurnedFee)); err != nil {
			return errors.Wrap(err, "failed to pay referrer")
		}
	}
	if err := p.bank.Transfer(p.address, caller, payment.Sub(total)); err != nil {
		return errors.Wrap(err, "failed to refund excess payment")
	}

	return errors.WithStack(p.ledger.SetLicenseFromProxy(ctx, p.address, ticker, mod))
}

// RemoveMod disables a sub-mod for one hook kind. Creator only. The mod's
// license is untouched: the proxy stops dispatching to it but cannot revoke
// what the ledger granted. Removing a mod that was never enabled is a no-op.
func (p *Proxy) RemoveMod(ctx context.Context, caller totem.Address, ticker string, hook totem.Hook, mod totem.Address) (err error) {
	end := p.journal.Begin()
	defer func() { end(&err) }()

	t, err := p.ledger.GetTotem(ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if t.Creator != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the totem creator")
	}

	k := totem.TickerToKey(ticker)
	hk := hookKey{ticker: k, hook: hook, mod: mod}
	if !p.state.enabled[hk] {
		return nil
	}
	delete(p.state.enabled, hk)

	lk := listKey{ticker: k, hook: hook}
	list := p.state.lists[lk]
	for i, addr := range list {
		if addr == mod {
			list[i] = list[len(list)-1]
			p.state.lists[lk] = list[:len(list)-1]
			break
		}
	}
	return nil
}

// GetMods returns the enabled sub-mods of a totem for one hook kind.
func (p *Proxy) GetMods(ticker string, hook totem.Hook) []totem.Address {
	lk := listKey{ticker: totem.TickerToKey(ticker), hook: hook}
	return append([]totem.Address(nil), p.state.lists[lk]...)
}

// IsEnabled reports whether a sub-mod is enabled for a hook kind of a totem.
func (p *Proxy) IsEnabled(ticker string, hook totem.Hook, mod totem.Address) bool {
	return p.state.enabled[hookKey{ticker: totem.TickerToKey(ticker), hook: hook, mod: mod}]
}

func containsHook(hooks []totem.Hook, hook totem.Hook) bool {
	for _, h := range hooks {
		if h == hook {
			return true
		}
	}
	return false
}

func (p *Proxy) Snapshot() any {
	enabled := make(map[hookKey]bool, len(p.state.enabled))
	for k, v := range p.state.enabled {
		enabled[k] = v
	}
	lists := make(map[listKey][]totem.Address, len(p.state.lists))
	for k, v := range p.state.lists {
		lists[k] = append([]totem.Address(nil), v...)
	}
	return &state{enabled: enabled, lists: lists}
}

func (p *Proxy) Restore(snapshot any) {
	p.state = snapshot.(*state)
}
