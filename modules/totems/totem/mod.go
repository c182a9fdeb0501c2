package totem

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
)

const (
	MinModNameLength    = 3
	MaxModNameLength    = 100
	MinModSummaryLength = 10
	MaxModSummaryLength = 150
)

// ModDetails are the seller-mutable presentation attributes of a published mod.
type ModDetails struct {
	Name           string
	Summary        string
	Markdown       string
	Image          string
	Website        string
	IsMinter       bool
	NeedsUnlimited bool
}

// Validate checks the detail bounds enforced at publish and update.
func (d ModDetails) Validate() error {
	if len(d.Name) < MinModNameLength {
		return errors.WithStack(ErrModNameTooShort{Length: len(d.Name)})
	}
	if len(d.Name) > MaxModNameLength {
		return errors.WithStack(ErrModNameTooLong{Length: len(d.Name)})
	}
	if len(d.Summary) < MinModSummaryLength {
		return errors.WithStack(ErrModSummaryTooShort{Length: len(d.Summary)})
	}
	if len(d.Summary) > MaxModSummaryLength {
		return errors.WithStack(ErrModSummaryTooLong{Length: len(d.Summary)})
	}
	if d.Image == "" {
		return errors.Wrap(errs.InvalidArgument, "mod image must not be empty")
	}
	return nil
}

// InputMode is how off-chain tooling fills a required-action input.
type InputMode uint8

const (
	// InputDynamic is provided by the totem creator at setup time.
	InputDynamic InputMode = iota + 1
	// InputStatic is fixed by the mod author.
	InputStatic
	// InputTotem is auto-filled with the target totem's ticker.
	InputTotem
)

func (m InputMode) IsValid() bool {
	switch m {
	case InputDynamic, InputStatic, InputTotem:
		return true
	}
	return false
}

// ActionInput is one typed input of a required action.
type ActionInput struct {
	Name  string
	Type  string
	Mode  InputMode
	Value string
}

// RequiredAction is a declarative post-creation setup call descriptor attached
// to a mod at publish time. It is consumed by off-chain tooling; the ledger
// only enforces setup through the mod's own IsSetupFor capability.
type RequiredAction struct {
	Signature string
	Inputs    []ActionInput
	Cost      uint128.Uint128
	Reason    string
}

// Mod is a published market entry for an extension contract.
type Mod struct {
	Mod             Address
	Seller          Address
	Price           uint128.Uint128
	Details         ModDetails
	Hooks           []Hook
	RequiredActions []RequiredAction
	PublishedAt     time.Time
	UpdatedAt       time.Time
}

// SupportsHook reports whether the mod declared support for the hook kind at
// publish time.
func (m Mod) SupportsHook(h Hook) bool {
	for _, hook := range m.Hooks {
		if hook == h {
			return true
		}
	}
	return false
}
