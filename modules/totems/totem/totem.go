package totem

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
	"github.com/totemlabs/totems-engine/common/errs"
)

const (
	MinTotemNameLength        = 3
	MaxTotemNameLength        = 100
	MaxTotemDescriptionLength = 1000
	MaxTotemImageLength       = 400

	// MaxAllocations bounds the allocation list of a single totem.
	MaxAllocations = 50

	// MaxMods bounds the total mod count across all five hook lists.
	MaxMods = 200
)

// TotemDetails are the immutable presentation attributes of a totem,
// fixed at creation.
type TotemDetails struct {
	Ticker      string
	Name        string
	Description string
	Image       string
	Website     string
	Seed        uint64
	Decimals    uint8
}

// Validate checks the shape of creation details. The ticker-uniqueness check
// is the ledger's concern, not the details'.
func (d TotemDetails) Validate() error {
	if err := ValidateTicker(d.Ticker); err != nil {
		return errors.WithStack(err)
	}
	if len(d.Name) < MinTotemNameLength {
		return errors.Wrapf(errs.InvalidArgument, "totem name must be at least %d characters", MinTotemNameLength)
	}
	if len(d.Name) > MaxTotemNameLength {
		return errors.Wrapf(errs.InvalidArgument, "totem name must be at most %d characters", MaxTotemNameLength)
	}
	if len(d.Description) > MaxTotemDescriptionLength {
		return errors.Wrapf(errs.InvalidArgument, "totem description must be at most %d characters", MaxTotemDescriptionLength)
	}
	if d.Image == "" {
		return errors.Wrap(errs.InvalidArgument, "totem image must not be empty")
	}
	if len(d.Image) > MaxTotemImageLength {
		return errors.Wrapf(errs.InvalidArgument, "totem image must be at most %d characters", MaxTotemImageLength)
	}
	if d.Seed == 0 {
		return errors.Wrap(errs.InvalidArgument, "totem seed must not be zero")
	}
	return nil
}

// Allocation is an initial recipient entry of a totem, fixed at creation.
// A minter allocation designates a Market-registered minter mod; an amount of
// zero registers the mod as an unlimited minter.
type Allocation struct {
	Recipient Address
	Amount    uint128.Uint128
	IsMinter  bool
	Label     string
}

// ModList holds the five per-hook mod address lists of a totem.
type ModList struct {
	Created           []Address
	Mint              []Address
	Burn              []Address
	Transfer          []Address
	TransferOwnership []Address
}

// ForHook returns the address list of the given hook kind.
func (m ModList) ForHook(h Hook) []Address {
	switch h {
	case HookCreated:
		return m.Created
	case HookMint:
		return m.Mint
	case HookBurn:
		return m.Burn
	case HookTransfer:
		return m.Transfer
	case HookTransferOwnership:
		return m.TransferOwnership
	}
	return nil
}

// Count returns the total mod count across all hook lists.
func (m ModList) Count() int {
	return len(m.Created) + len(m.Mint) + len(m.Burn) + len(m.Transfer) + len(m.TransferOwnership)
}

// Unique returns the deduplicated union of all mods across all hook lists,
// in first-seen order.
func (m ModList) Unique() []Address {
	all := make([]Address, 0, m.Count())
	for _, h := range Hooks {
		all = append(all, m.ForHook(h)...)
	}
	return lo.Uniq(all)
}

// Totem is a named token registry instance managed by the ledger.
type Totem struct {
	Creator             Address
	CreatedAt           time.Time
	UpdatedAt           time.Time
	IsActive            bool
	Supply              uint128.Uint128
	MaxSupply           uint128.Uint128
	HasUnlimitedMinters bool
	Allocations         []Allocation
	Mods                ModList
	Details             TotemDetails
}

// TotemStats are the per-totem counters maintained alongside every
// balance-changing operation.
type TotemStats struct {
	Mints     uint64
	Burns     uint64
	Transfers uint64
	Holders   uint64
}

// Relay is an authorized external-facade contract of a totem, tagged with the
// standard it exposes (e.g. "ERC20").
type Relay struct {
	Address  Address
	Standard string
}

// FeeDisbursement is an ephemeral (recipient, amount) pair collected during
// creation and publish, paid out in one atomic step.
type FeeDisbursement struct {
	Recipient Address
	Amount    uint128.Uint128
}

// Balance pairs an account with its token amount, used by holder views.
type Balance struct {
	Account Address
	Amount  uint128.Uint128
}
