// Package relay implements the ERC-20-style facade over a single totem. A
// relay is an authorized contract the ledger trusts to act on behalf of any
// account of its totem, so wallets and markets built for fungible-token
// standards can operate on totem balances without speaking the ledger API.
package relay

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/ledger"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// StandardERC20 is the standard tag relays created by the Factory carry.
const StandardERC20 = "erc20"

// Relay exposes one totem through an ERC-20-shaped surface. It holds no
// balances of its own; every call is translated into a ledger operation with
// the relay's address as the caller.
type Relay struct {
	address totem.Address
	ticker  string
	ledger  *ledger.Ledger
}

func New(address totem.Address, ticker string, ldg *ledger.Ledger) *Relay {
	return &Relay{address: address, ticker: ticker, ledger: ldg}
}

// Address returns the relay's own address.
func (r *Relay) Address() totem.Address {
	return r.address
}

// Ticker returns the ticker of the totem the relay fronts.
func (r *Relay) Ticker() string {
	return r.ticker
}

// Name returns the totem's display name.
func (r *Relay) Name() (string, error) {
	t, err := r.ledger.GetTotem(r.ticker)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return t.Details.Name, nil
}

// Symbol returns the totem's canonical ticker.
func (r *Relay) Symbol() (string, error) {
	t, err := r.ledger.GetTotem(r.ticker)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return t.Details.Ticker, nil
}

// Decimals returns the totem's decimal places.
func (r *Relay) Decimals() (uint8, error) {
	t, err := r.ledger.GetTotem(r.ticker)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return t.Details.Decimals, nil
}

// TotalSupply returns the totem's circulating supply.
func (r *Relay) TotalSupply() (uint128.Uint128, error) {
	t, err := r.ledger.GetTotem(r.ticker)
	if err != nil {
		return uint128.Zero, errors.WithStack(err)
	}
	return t.Supply, nil
}

// BalanceOf returns an account's balance.
func (r *Relay) BalanceOf(account totem.Address) (uint128.Uint128, error) {
	return r.ledger.GetBalance(r.ticker, account)
}

// Transfer moves tokens from the caller to another account through the
// ledger, with the relay vouching for the caller.
func (r *Relay) Transfer(ctx context.Context, caller, to totem.Address, amount uint128.Uint128) error {
	return errors.WithStack(r.ledger.Transfer(ctx, r.address, r.ticker, caller, to, amount, ""))
}

// Burn destroys tokens held by the caller through the ledger.
func (r *Relay) Burn(ctx context.Context, caller totem.Address, amount uint128.Uint128, memo string) error {
	return errors.WithStack(r.ledger.Burn(ctx, r.address, r.ticker, caller, amount, memo))
}
