package proxy

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// authenticate rejects hook events that did not originate from the ledger and
// events for totems that never licensed the proxy itself.
func (p *Proxy) authenticate(origin totem.Address, ticker string) error {
	if origin != p.ledger.Address() {
		return errors.WithStack(totem.ErrInvalidModEventOrigin)
	}
	if !p.ledger.IsLicensed(ticker, p.address) {
		return errors.WithStack(totem.ErrNotLicensed)
	}
	return nil
}

func (p *Proxy) OnMint(ctx context.Context, origin totem.Address, ticker string, minter totem.Address, amount uint128.Uint128, payment uint128.Uint128, memo string) error {
	if err := p.authenticate(origin, ticker); err != nil {
		return err
	}
	for _, addr := range p.state.lists[listKey{ticker: totem.TickerToKey(ticker), hook: totem.HookMint}] {
		sub, err := p.subMod(addr)
		if err != nil {
			return err
		}
		observer, ok := sub.(modkit.OnMint)
		if !ok {
			return errors.WithStack(totem.ErrModDoesntSupportHook{Mod: addr, Hook: totem.HookMint})
		}
		if err := observer.OnMint(ctx, p.address, ticker, minter, amount, payment, memo); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (p *Proxy) OnBurn(ctx context.Context, origin totem.Address, ticker string, owner totem.Address, amount uint128.Uint128, memo string) error {
	if err := p.authenticate(origin, ticker); err != nil {
		return err
	}
	for _, addr := range p.state.lists[listKey{ticker: totem.TickerToKey(ticker), hook: totem.HookBurn}] {
		sub, err := p.subMod(addr)
		if err != nil {
			return err
		}
		observer, ok := sub.(modkit.OnBurn)
		if !ok {
			return errors.WithStack(totem.ErrModDoesntSupportHook{Mod: addr, Hook: totem.HookBurn})
		}
		if err := observer.OnBurn(ctx, p.address, ticker, owner, amount, memo); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (p *Proxy) OnTransfer(ctx context.Context, origin totem.Address, ticker string, from, to totem.Address, amount uint128.Uint128, memo string) error {
	if err := p.authenticate(origin, ticker); err != nil {
		return err
	}
	for _, addr := range p.state.lists[listKey{ticker: totem.TickerToKey(ticker), hook: totem.HookTransfer}] {
		sub, err := p.subMod(addr)
		if err != nil {
			return err
		}
		observer, ok := sub.(modkit.OnTransfer)
		if !ok {
			return errors.WithStack(totem.ErrModDoesntSupportHook{Mod: addr, Hook: totem.HookTransfer})
		}
		if err := observer.OnTransfer(ctx, p.address, ticker, from, to, amount, memo); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (p *Proxy) OnTransferOwnership(ctx context.Context, origin totem.Address, ticker string, prevOwner, newOwner totem.Address) error {
	if err := p.authenticate(origin, ticker); err != nil {
		return err
	}
	for _, addr := range p.state.lists[listKey{ticker: totem.TickerToKey(ticker), hook: totem.HookTransferOwnership}] {
		sub, err := p.subMod(addr)
		if err != nil {
			return err
		}
		observer, ok := sub.(modkit.OnTransferOwnership)
		if !ok {
			return errors.WithStack(totem.ErrModDoesntSupportHook{Mod: addr, Hook: totem.HookTransferOwnership})
		}
		if err := observer.OnTransferOwnership(ctx, p.address, ticker, prevOwner, newOwner); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func (p *Proxy) subMod(addr totem.Address) (modkit.Mod, error) {
	sub, ok := p.registry.Lookup(addr)
	if !ok {
		return nil, errors.WithStack(totem.ErrModNotFound{Mod: addr})
	}
	return sub, nil
}
