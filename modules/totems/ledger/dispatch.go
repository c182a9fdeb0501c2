package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// Hook dispatch happens strictly after state mutation. A hook failure
// propagates and aborts the whole operation, including the triggering
// mint/burn/transfer; the ledger never swallows a failed hook call.

func (l *Ledger) hookTarget(addr totem.Address, hook totem.Hook) (modkit.Mod, error) {
	impl, ok := l.registry.Lookup(addr)
	if !ok {
		return nil, errors.Wrapf(errs.NotFound, "hook mod %s has no code", addr)
	}
	if !modkit.SupportsHook(impl, hook) {
		return nil, errors.WithStack(totem.ErrModDoesntSupportHook{Mod: addr, Hook: hook})
	}
	return impl, nil
}

func (l *Ledger) dispatchCreated(ctx context.Context, mods []totem.Address, ticker string, creator totem.Address) error {
	for _, addr := range mods {
		// The proxy cannot yet be licensed during creation, so it never
		// receives the created hook.
		if addr == l.proxy {
			continue
		}
		impl, err := l.hookTarget(addr, totem.HookCreated)
		if err != nil {
			return err
		}
		if err := impl.(modkit.OnCreated).OnCreated(ctx, l.address, ticker, creator); err != nil {
			return errors.Wrapf(err, "created hook %s failed", addr)
		}
	}
	return nil
}

func (l *Ledger) dispatchMint(ctx context.Context, mods []totem.Address, ticker string, minter totem.Address, amount, payment uint128.Uint128, memo string) error {
	for _, addr := range mods {
		impl, err := l.hookTarget(addr, totem.HookMint)
		if err != nil {
			return err
		}
		if err := impl.(modkit.OnMint).OnMint(ctx, l.address, ticker, minter, amount, payment, memo); err != nil {
			return errors.Wrapf(err, "mint hook %s failed", addr)
		}
	}
	return nil
}

func (l *Ledger) dispatchBurn(ctx context.Context, mods []totem.Address, ticker string, owner totem.Address, amount uint128.Uint128, memo string) error {
	for _, addr := range mods {
		impl, err := l.hookTarget(addr, totem.HookBurn)
		if err != nil {
			return err
		}
		if err := impl.(modkit.OnBurn).OnBurn(ctx, l.address, ticker, owner, amount, memo); err != nil {
			return errors.Wrapf(err, "burn hook %s failed", addr)
		}
	}
	return nil
}

func (l *Ledger) dispatchTransfer(ctx context.Context, mods []totem.Address, ticker string, from, to totem.Address, amount uint128.Uint128, memo string) error {
	for _, addr := range mods {
		impl, err := l.hookTarget(addr, totem.HookTransfer)
		if err != nil {
			return err
		}
		if err := impl.(modkit.OnTransfer).OnTransfer(ctx, l.address, ticker, from, to, amount, memo); err != nil {
			return errors.Wrapf(err, "transfer hook %s failed", addr)
		}
	}
	return nil
}

func (l *Ledger) dispatchTransferOwnership(ctx context.Context, mods []totem.Address, ticker string, prevOwner, newOwner totem.Address) error {
	for _, addr := range mods {
		impl, err := l.hookTarget(addr, totem.HookTransferOwnership)
		if err != nil {
			return err
		}
		if err := impl.(modkit.OnTransferOwnership).OnTransferOwnership(ctx, l.address, ticker, prevOwner, newOwner); err != nil {
			return errors.Wrapf(err, "transferOwnership hook %s failed", addr)
		}
	}
	return nil
}
