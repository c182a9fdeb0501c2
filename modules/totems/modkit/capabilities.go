// Package modkit defines the capability set a mod may implement to receive
// lifecycle notifications from the ledger, and the registry that maps mod
// addresses to their implementations.
//
// Every hook-receiving capability must authenticate its caller: the origin
// address passed to each hook must be exactly the ledger (or the designated
// proxy, for mods registered through the proxy), and the mod must verify it is
// licensed for the ticker before acting. These two checks are the only
// security boundary a mod has against forged invocations.
package modkit

import (
	"context"

	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// Mod is the base capability every registered extension implements.
type Mod interface {
	// ModAddress returns the mod's own address.
	ModAddress() totem.Address
	// GetSeller returns the address that collects the mod's market price.
	GetSeller() totem.Address
}

// OnCreated receives totem creation notifications. Dispatched while the new
// totem is still inactive: calling back into the ledger for this totem fails
// with ErrTotemNotActive.
type OnCreated interface {
	OnCreated(ctx context.Context, origin totem.Address, ticker string, creator totem.Address) error
}

// OnMint receives mint notifications. The amount is the requested amount, not
// the measured minted amount.
type OnMint interface {
	OnMint(ctx context.Context, origin totem.Address, ticker string, minter totem.Address, amount, payment uint128.Uint128, memo string) error
}

// OnBurn receives burn notifications.
type OnBurn interface {
	OnBurn(ctx context.Context, origin totem.Address, ticker string, owner totem.Address, amount uint128.Uint128, memo string) error
}

// OnTransfer receives transfer notifications.
type OnTransfer interface {
	OnTransfer(ctx context.Context, origin totem.Address, ticker string, from, to totem.Address, amount uint128.Uint128, memo string) error
}

// OnTransferOwnership receives ownership-transfer notifications.
type OnTransferOwnership interface {
	OnTransferOwnership(ctx context.Context, origin totem.Address, ticker string, prevOwner, newOwner totem.Address) error
}

// Minter is the payable mint entry point a mod implements to be an allocation
// recipient. It is invoked only by the ledger during mint, and has full
// latitude to call back into the ledger: the ledger measures the recipient's
// balance delta rather than trusting the mod's bookkeeping.
type Minter interface {
	Mint(ctx context.Context, origin totem.Address, ticker string, recipient totem.Address, amount, payment uint128.Uint128, memo string) error
	// IsSetupFor reports whether the mod has completed its required setup for
	// the ticker. The ledger refuses to mint through an unconfigured mod.
	IsSetupFor(ctx context.Context, ticker string) (bool, error)
}

// RelayFactory deploys relay contracts on behalf of a totem creator.
type RelayFactory interface {
	CreateRelay(ctx context.Context, creator totem.Address, ticker string) (totem.Address, error)
}

// SupportsHook reports whether the mod implementation actually carries the
// capability for the given hook kind.
func SupportsHook(m Mod, h totem.Hook) bool {
	switch h {
	case totem.HookCreated:
		_, ok := m.(OnCreated)
		return ok
	case totem.HookMint:
		_, ok := m.(OnMint)
		return ok
	case totem.HookBurn:
		_, ok := m.(OnBurn)
		return ok
	case totem.HookTransfer:
		_, ok := m.(OnTransfer)
		return ok
	case totem.HookTransferOwnership:
		_, ok := m.(OnTransferOwnership)
		return ok
	}
	return false
}
