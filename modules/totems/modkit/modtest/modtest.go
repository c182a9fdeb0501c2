// Package modtest provides configurable mod implementations for exercising
// the ledger, market and proxy in tests.
package modtest

import (
	"context"
	"sync/atomic"

	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// Call is one recorded hook invocation.
type Call struct {
	Hook      totem.Hook
	Origin    totem.Address
	Ticker    string
	Actor     totem.Address
	From      totem.Address
	To        totem.Address
	Amount    uint128.Uint128
	Payment   uint128.Uint128
	Memo      string
	PrevOwner totem.Address
	NewOwner  totem.Address
}

// Recorder implements every hook capability, records each invocation, and
// optionally runs an injected callback per call. Returning an error from the
// callback propagates it to the dispatching operation.
type Recorder struct {
	Addr     totem.Address
	Seller   totem.Address
	Callback func(ctx context.Context, call Call) error
	Calls    []Call
}

var (
	_ modkit.Mod                 = (*Recorder)(nil)
	_ modkit.OnCreated           = (*Recorder)(nil)
	_ modkit.OnMint              = (*Recorder)(nil)
	_ modkit.OnBurn              = (*Recorder)(nil)
	_ modkit.OnTransfer          = (*Recorder)(nil)
	_ modkit.OnTransferOwnership = (*Recorder)(nil)
)

func NewRecorder(name string) *Recorder {
	return &Recorder{
		Addr:   totem.NamedAddress("modtest/" + name),
		Seller: totem.NamedAddress("modtest/" + name + "/seller"),
	}
}

func (r *Recorder) ModAddress() totem.Address { return r.Addr }
func (r *Recorder) GetSeller() totem.Address  { return r.Seller }

// CallsFor returns the recorded calls of one hook kind.
func (r *Recorder) CallsFor(hook totem.Hook) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Hook == hook {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) record(ctx context.Context, call Call) error {
	r.Calls = append(r.Calls, call)
	if r.Callback != nil {
		return r.Callback(ctx, call)
	}
	return nil
}

func (r *Recorder) OnCreated(ctx context.Context, origin totem.Address, ticker string, creator totem.Address) error {
	return r.record(ctx, Call{Hook: totem.HookCreated, Origin: origin, Ticker: ticker, Actor: creator})
}

func (r *Recorder) OnMint(ctx context.Context, origin totem.Address, ticker string, minter totem.Address, amount, payment uint128.Uint128, memo string) error {
	return r.record(ctx, Call{Hook: totem.HookMint, Origin: origin, Ticker: ticker, Actor: minter, Amount: amount, Payment: payment, Memo: memo})
}

func (r *Recorder) OnBurn(ctx context.Context, origin totem.Address, ticker string, owner totem.Address, amount uint128.Uint128, memo string) error {
	return r.record(ctx, Call{Hook: totem.HookBurn, Origin: origin, Ticker: ticker, Actor: owner, Amount: amount, Memo: memo})
}

func (r *Recorder) OnTransfer(ctx context.Context, origin totem.Address, ticker string, from, to totem.Address, amount uint128.Uint128, memo string) error {
	return r.record(ctx, Call{Hook: totem.HookTransfer, Origin: origin, Ticker: ticker, From: from, To: to, Amount: amount, Memo: memo})
}

func (r *Recorder) OnTransferOwnership(ctx context.Context, origin totem.Address, ticker string, prevOwner, newOwner totem.Address) error {
	return r.record(ctx, Call{Hook: totem.HookTransferOwnership, Origin: origin, Ticker: ticker, PrevOwner: prevOwner, NewOwner: newOwner})
}

// TransferFn is the slice of the ledger a Minter needs to issue tokens.
type TransferFn func(ctx context.Context, caller totem.Address, ticker string, from, to totem.Address, amount uint128.Uint128, memo string) error

// Minter is a configurable minter mod. As an unlimited minter it issues by
// transferring out of its own zero balance; as a funded minter it spends its
// allocation. Shortchange makes it deliver half of every requested amount,
// which exercises measured (rather than declared) mint accounting.
type Minter struct {
	Addr        totem.Address
	Seller      totem.Address
	IsMinterMod bool
	Unlimited   bool
	Shortchange bool
	SetupFor    map[string]bool
	Transfer    TransferFn
	MintErr     error
	MintCalls   atomic.Int64
}

var (
	_ modkit.Mod    = (*Minter)(nil)
	_ modkit.Minter = (*Minter)(nil)
)

func NewMinter(name string, transfer TransferFn) *Minter {
	return &Minter{
		Addr:        totem.NamedAddress("modtest/" + name),
		Seller:      totem.NamedAddress("modtest/" + name + "/seller"),
		IsMinterMod: true,
		SetupFor:    make(map[string]bool),
		Transfer:    transfer,
	}
}

func (m *Minter) ModAddress() totem.Address { return m.Addr }
func (m *Minter) GetSeller() totem.Address  { return m.Seller }

func (m *Minter) IsSetupFor(ctx context.Context, ticker string) (bool, error) {
	return m.SetupFor[ticker], nil
}

func (m *Minter) Mint(ctx context.Context, origin totem.Address, ticker string, recipient totem.Address, amount, payment uint128.Uint128, memo string) error {
	m.MintCalls.Add(1)
	if m.MintErr != nil {
		return m.MintErr
	}
	deliver := amount
	if m.Shortchange {
		deliver = amount.Div64(2)
	}
	if deliver.IsZero() {
		return nil
	}
	return m.Transfer(ctx, m.Addr, ticker, m.Addr, recipient, deliver, "")
}
