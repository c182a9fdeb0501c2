package totem

import (
	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
)

// Hook is one of the five lifecycle event kinds a mod can subscribe to.
type Hook uint8

const (
	HookCreated Hook = iota + 1
	HookMint
	HookBurn
	HookTransfer
	HookTransferOwnership
)

// Hooks lists all valid hook kinds in dispatch order.
var Hooks = []Hook{HookCreated, HookMint, HookBurn, HookTransfer, HookTransferOwnership}

func (h Hook) IsValid() bool {
	switch h {
	case HookCreated, HookMint, HookBurn, HookTransfer, HookTransferOwnership:
		return true
	}
	return false
}

func (h Hook) String() string {
	switch h {
	case HookCreated:
		return "created"
	case HookMint:
		return "mint"
	case HookBurn:
		return "burn"
	case HookTransfer:
		return "transfer"
	case HookTransferOwnership:
		return "transferOwnership"
	}
	return "unknown"
}

// ParseHook parses a hook kind from its string form.
func ParseHook(s string) (Hook, error) {
	for _, h := range Hooks {
		if h.String() == s {
			return h, nil
		}
	}
	return 0, errors.Wrapf(errs.InvalidArgument, "invalid hook %q", s)
}
