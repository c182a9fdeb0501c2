package proxy

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// Mint routes a mint request to a sub-mod minter picked by the memo. The memo
// must be exactly the 40 hex characters of the sub-mod's address, with no
// prefix. Payment forwarded by the ledger is passed along to the sub-mod.
func (p *Proxy) Mint(ctx context.Context, origin totem.Address, ticker string, recipient totem.Address, amount uint128.Uint128, payment uint128.Uint128, memo string) error {
	if origin != p.ledger.Address() {
		return errors.WithStack(totem.ErrInvalidModEventOrigin)
	}

	if len(memo) != totem.AddressHexLength {
		return errors.WithStack(totem.ErrInvalidAddressLength{Length: len(memo)})
	}
	target, err := totem.NewAddressFromString(memo)
	if err != nil {
		return errors.WithStack(err)
	}

	if !p.ledger.IsLicensed(ticker, target) {
		return errors.WithStack(totem.ErrNotLicensed)
	}
	sub, err := p.subMod(target)
	if err != nil {
		return err
	}
	minter, ok := sub.(modkit.Minter)
	if !ok {
		return errors.WithStack(totem.ErrModNotMinter{Mod: target})
	}
	setup, err := minter.IsSetupFor(ctx, ticker)
	if err != nil {
		return errors.WithStack(err)
	}
	if !setup {
		return errors.WithStack(totem.ErrModNotSetup{Mod: target, Ticker: ticker})
	}

	if err := p.bank.Transfer(p.address, target, payment); err != nil {
		return errors.Wrap(err, "failed to forward payment")
	}
	return errors.WithStack(minter.Mint(ctx, p.address, ticker, recipient, amount, payment, memo))
}

// IsSetupFor always reports true: the proxy itself needs no per-totem setup,
// routing readiness is decided per sub-mod at mint time.
func (p *Proxy) IsSetupFor(ctx context.Context, ticker string) (bool, error) {
	return true, nil
}
