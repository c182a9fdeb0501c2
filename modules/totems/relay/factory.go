package relay

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/ledger"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// Factory deploys ERC-20 relays for the ledger's CreateRelay path. Relay
// addresses are derived deterministically from the creator and ticker, so a
// second deployment for the same pair collides instead of shadowing the first.
type Factory struct {
	ledger *ledger.Ledger
	relays map[totem.Address]*Relay
}

func NewFactory() *Factory {
	return &Factory{relays: make(map[totem.Address]*Relay)}
}

// Bind attaches the ledger the deployed relays will operate against. Split
// from NewFactory because the ledger takes the factory as a construction
// option.
func (f *Factory) Bind(ldg *ledger.Ledger) {
	f.ledger = ldg
}

func (f *Factory) CreateRelay(ctx context.Context, creator totem.Address, ticker string) (totem.Address, error) {
	if f.ledger == nil {
		return totem.NullAddress, errors.Wrap(errs.InvalidState, "factory is not bound to a ledger")
	}
	addr := totem.NamedAddress(fmt.Sprintf("relay/%x/%s", totem.TickerToKey(ticker), creator))
	if _, ok := f.relays[addr]; ok {
		return totem.NullAddress, errors.Wrapf(errs.Duplicate, "relay for %q by %s already exists", ticker, creator)
	}
	f.relays[addr] = New(addr, ticker, f.ledger)
	return addr, nil
}

// Get returns a deployed relay by address.
func (f *Factory) Get(addr totem.Address) (*Relay, bool) {
	r, ok := f.relays[addr]
	return r, ok
}
