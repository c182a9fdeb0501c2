package entity

import (
	"time"

	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type EventKind string

const (
	EventKindCreated           EventKind = "created"
	EventKindMint              EventKind = "mint"
	EventKindBurn              EventKind = "burn"
	EventKindTransfer          EventKind = "transfer"
	EventKindTransferOwnership EventKind = "transferOwnership"
)

// TotemEvent is the committed record of a mutating ledger operation. Events
// are only appended after the enclosing unit of work commits; a reverted
// operation leaves no event. For mint events the amount is the measured
// minted amount, not the requested one.
type TotemEvent struct {
	Id        int64
	Kind      EventKind
	Ticker    string
	Actor     totem.Address
	From      totem.Address
	To        totem.Address
	Mod       totem.Address
	Amount    uint128.Uint128
	Memo      string
	Timestamp time.Time
}
