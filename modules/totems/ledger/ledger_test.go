package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems"
	"github.com/totemlabs/totems-engine/modules/totems/market"
	"github.com/totemlabs/totems-engine/modules/totems/modkit/modtest"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

var (
	creator = totem.NamedAddress("test/creator")
	alice   = totem.NamedAddress("test/alice")
	bob     = totem.NamedAddress("test/bob")
)

const funding = 1_000_000_000_000_000_000

type fixture struct {
	ctx context.Context
	eng *totems.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	eng, err := totems.NewEngine(context.Background(), totems.EngineOptions{
		Clock: func() time.Time { return time.Unix(1700000000, 0).UTC() },
	})
	require.NoError(t, err)
	eng.Bank.Deposit(creator, uint128.From64(funding))
	return &fixture{ctx: context.Background(), eng: eng}
}

func (f *fixture) params() market.Params {
	return f.eng.Market.Params()
}

func validDetails(ticker string) totem.TotemDetails {
	return totem.TotemDetails{
		Ticker:   ticker,
		Name:     "Test Totem",
		Image:    "ipfs://totems/test.png",
		Seed:     1,
		Decimals: 18,
	}
}

// createSimple creates an active totem with a single 1000-token allocation to
// alice and no mods.
func (f *fixture) createSimple(t *testing.T, ticker string) {
	t.Helper()
	err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails(ticker),
		[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
		totem.ModList{}, totem.NullAddress)
	require.NoError(t, err)
}

// publishRecorder registers and publishes a hook recorder mod.
func (f *fixture) publishRecorder(t *testing.T, name string, price uint64, hooks ...totem.Hook) *modtest.Recorder {
	t.Helper()
	mod := modtest.NewRecorder(name)
	require.NoError(t, f.eng.Registry.Register(mod))
	f.eng.Bank.Deposit(mod.Seller, f.params().MinBaseFee)
	require.NoError(t, f.eng.Market.Publish(f.ctx, mod.Seller, f.params().MinBaseFee, mod.Addr,
		hooks, uint128.From64(price), totem.ModDetails{
			Name:    "Recorder " + name,
			Summary: "Records every hook invocation it receives.",
			Image:   "ipfs://mods/recorder.png",
		}, nil, totem.NullAddress))
	return mod
}

// publishMinter registers and publishes a minter mod wired to the ledger.
func (f *fixture) publishMinter(t *testing.T, name string, unlimited bool) *modtest.Minter {
	t.Helper()
	mod := modtest.NewMinter(name, f.eng.Ledger.Transfer)
	mod.Unlimited = unlimited
	require.NoError(t, f.eng.Registry.Register(mod))
	f.eng.Bank.Deposit(mod.Seller, f.params().MinBaseFee)
	require.NoError(t, f.eng.Market.Publish(f.ctx, mod.Seller, f.params().MinBaseFee, mod.Addr,
		[]totem.Hook{totem.HookMint}, uint128.Zero, totem.ModDetails{
			Name:           "Minter " + name,
			Summary:        "Issues tokens on demand for tests.",
			Image:          "ipfs://mods/minter.png",
			IsMinter:       true,
			NeedsUnlimited: unlimited,
		}, nil, totem.NullAddress))
	return mod
}

func TestCreate(t *testing.T) {
	t.Run("happy_path", func(t *testing.T) {
		f := newFixture(t)
		burnedBefore := f.eng.Bank.TotalBurned()
		f.createSimple(t, "TEST")

		tt, err := f.eng.Ledger.GetTotem("TEST")
		require.NoError(t, err)
		assert.True(t, tt.IsActive)
		assert.Equal(t, creator, tt.Creator)
		assert.Equal(t, uint128.From64(1000), tt.Supply)
		assert.Equal(t, uint128.From64(1000), tt.MaxSupply)
		assert.False(t, tt.HasUnlimitedMinters)

		balance, err := f.eng.Ledger.GetBalance("TEST", alice)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(1000), balance)

		// Creation fee is burned in full without a referrer.
		assert.Equal(t, f.params().MinBaseFee, f.eng.Bank.TotalBurned().Sub(burnedBefore))

		stats, err := f.eng.Ledger.GetStats("TEST")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stats.Mints)
		assert.Equal(t, uint64(1), stats.Holders)
	})

	t.Run("ticker_is_case_insensitive", func(t *testing.T) {
		f := newFixture(t)
		f.createSimple(t, "test")

		_, err := f.eng.Ledger.GetTotem("TEST")
		require.NoError(t, err)

		err = f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TeSt"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1)}},
			totem.ModList{}, totem.NullAddress)
		assert.ErrorIs(t, err, errs.Duplicate)
	})

	t.Run("zero_supply_rejected", func(t *testing.T) {
		f := newFixture(t)
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("EMPTY"),
			nil, totem.ModList{}, totem.NullAddress)
		assert.ErrorIs(t, err, totem.ErrZeroSupply)
		assert.ErrorIs(t, err, errs.InvalidArgument)

		_, err = f.eng.Ledger.GetTotem("EMPTY")
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("mods_licensed_and_sellers_paid", func(t *testing.T) {
		f := newFixture(t)
		mod := f.publishRecorder(t, "transfer-watch", 777, totem.HookTransfer)

		payment := f.params().MinBaseFee.Add64(777)
		err := f.eng.Ledger.Create(f.ctx, creator, payment, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Transfer: []totem.Address{mod.Addr}}, totem.NullAddress)
		require.NoError(t, err)

		assert.True(t, f.eng.Ledger.IsLicensed("TEST", mod.Addr))
		assert.Equal(t, uint128.From64(777), f.eng.Bank.Balance(mod.Seller))
	})

	t.Run("insufficient_fee", func(t *testing.T) {
		f := newFixture(t)
		mod := f.publishRecorder(t, "transfer-watch", 777, totem.HookTransfer)

		// Covers the base fee but not the mod price.
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Transfer: []totem.Address{mod.Addr}}, totem.NullAddress)
		assert.ErrorIs(t, err, errs.InsufficientFunds)
	})

	t.Run("mod_must_support_listed_hook", func(t *testing.T) {
		f := newFixture(t)
		mod := f.publishRecorder(t, "transfer-watch", 0, totem.HookTransfer)

		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Burn: []totem.Address{mod.Addr}}, totem.NullAddress)
		assert.ErrorIs(t, err, totem.ErrModDoesntSupportHook{Mod: mod.Addr, Hook: totem.HookBurn})
	})

	t.Run("unpublished_mod_rejected", func(t *testing.T) {
		f := newFixture(t)
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Transfer: []totem.Address{totem.NamedAddress("test/ghost")}}, totem.NullAddress)
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("referrer_gets_base_fee_remainder", func(t *testing.T) {
		f := newFixture(t)
		referrer := totem.NamedAddress("test/referrer")
		burnedBefore := f.eng.Bank.TotalBurned()

		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{}, referrer)
		require.NoError(t, err)

		assert.Equal(t, f.params().BurnedFee, f.eng.Bank.TotalBurned().Sub(burnedBefore))
		assert.Equal(t, f.params().MinBaseFee.Sub(f.params().BurnedFee), f.eng.Bank.Balance(referrer))
	})

	t.Run("created_hook_sees_inactive_totem", func(t *testing.T) {
		f := newFixture(t)
		mod := f.publishRecorder(t, "created-watch", 0, totem.HookCreated)

		var hookErr error
		mod.Callback = func(ctx context.Context, call modtest.Call) error {
			// Mutating the totem from inside its created hook must fail: the
			// totem activates only after dispatch completes.
			hookErr = f.eng.Ledger.Transfer(ctx, alice, "TEST", alice, bob, uint128.From64(1), "")
			return nil
		}

		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Created: []totem.Address{mod.Addr}}, totem.NullAddress)
		require.NoError(t, err)

		require.Len(t, mod.CallsFor(totem.HookCreated), 1)
		assert.ErrorIs(t, hookErr, totem.ErrTotemNotActive)

		tt, err := f.eng.Ledger.GetTotem("TEST")
		require.NoError(t, err)
		assert.True(t, tt.IsActive)
	})

	t.Run("failed_created_hook_reverts_everything", func(t *testing.T) {
		f := newFixture(t)
		mod := f.publishRecorder(t, "created-watch", 0, totem.HookCreated)
		mod.Callback = func(ctx context.Context, call modtest.Call) error {
			return errors.New("hook rejected the totem")
		}
		balanceBefore := f.eng.Bank.Balance(creator)
		burnedBefore := f.eng.Bank.TotalBurned()

		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Created: []totem.Address{mod.Addr}}, totem.NullAddress)
		require.Error(t, err)

		_, err = f.eng.Ledger.GetTotem("TEST")
		assert.ErrorIs(t, err, errs.NotFound)
		assert.Equal(t, balanceBefore, f.eng.Bank.Balance(creator), "fee collection must revert with the totem")
		assert.Equal(t, burnedBefore, f.eng.Bank.TotalBurned())
	})

	t.Run("reentrant_create_rejected", func(t *testing.T) {
		f := newFixture(t)
		mod := f.publishRecorder(t, "created-watch", 0, totem.HookCreated)

		var hookErr error
		mod.Callback = func(ctx context.Context, call modtest.Call) error {
			hookErr = f.eng.Ledger.Create(ctx, creator, f.params().MinBaseFee, validDetails("OTHER"),
				[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1)}},
				totem.ModList{}, totem.NullAddress)
			return nil
		}

		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Created: []totem.Address{mod.Addr}}, totem.NullAddress)
		require.NoError(t, err)
		assert.ErrorIs(t, hookErr, errs.Reentrancy)
	})
}

func TestCreateAllocations(t *testing.T) {
	f := newFixture(t)
	minter := f.publishMinter(t, "funded", false)
	unlimited := f.publishMinter(t, "unlimited", true)

	testcases := []struct {
		name        string
		allocations []totem.Allocation
		wantErr     bool
	}{
		{"plain", []totem.Allocation{{Recipient: alice, Amount: uint128.From64(10)}}, false},
		{"null_recipient", []totem.Allocation{{Recipient: totem.NullAddress, Amount: uint128.From64(10)}}, true},
		{"zero_plain_amount", []totem.Allocation{{Recipient: alice, Amount: uint128.Zero}}, true},
		{"funded_minter", []totem.Allocation{{Recipient: minter.Addr, Amount: uint128.From64(10), IsMinter: true}}, false},
		{"funded_minter_zero_amount", []totem.Allocation{{Recipient: minter.Addr, Amount: uint128.Zero, IsMinter: true}}, true},
		{"unlimited_minter", []totem.Allocation{{Recipient: unlimited.Addr, Amount: uint128.Zero, IsMinter: true}}, false},
		{"unlimited_minter_nonzero_amount", []totem.Allocation{{Recipient: unlimited.Addr, Amount: uint128.From64(10), IsMinter: true}}, true},
		{"minter_not_published", []totem.Allocation{{Recipient: alice, Amount: uint128.From64(10), IsMinter: true}}, true},
	}
	for i, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			ticker := string(rune('A' + i))
			err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails(ticker),
				tc.allocations, totem.ModList{}, totem.NullAddress)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	t.Run("too_many_allocations", func(t *testing.T) {
		allocations := make([]totem.Allocation, totem.MaxAllocations+1)
		for i := range allocations {
			allocations[i] = totem.Allocation{Recipient: totem.NamedAddress(string(rune(i))), Amount: uint128.From64(1)}
		}
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("MANY"),
			allocations, totem.ModList{}, totem.NullAddress)
		assert.ErrorIs(t, err, totem.ErrTooManyAllocations{Count: totem.MaxAllocations + 1})
	})

	t.Run("unlimited_minter_totem_has_zero_supply", func(t *testing.T) {
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("UNL"),
			[]totem.Allocation{{Recipient: unlimited.Addr, Amount: uint128.Zero, IsMinter: true}},
			totem.ModList{}, totem.NullAddress)
		require.NoError(t, err)

		tt, err := f.eng.Ledger.GetTotem("UNL")
		require.NoError(t, err)
		assert.True(t, tt.Supply.IsZero())
		assert.True(t, tt.MaxSupply.IsZero())
		assert.True(t, tt.HasUnlimitedMinters)
	})
}

func TestMint(t *testing.T) {
	setup := func(t *testing.T) (*fixture, *modtest.Minter) {
		f := newFixture(t)
		minter := f.publishMinter(t, "funded", false)
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: minter.Addr, Amount: uint128.From64(1000), IsMinter: true}},
			totem.ModList{}, totem.NullAddress)
		require.NoError(t, err)
		minter.SetupFor["TEST"] = true
		return f, minter
	}

	t.Run("mints_from_allocation", func(t *testing.T) {
		f, minter := setup(t)
		minted, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.Zero, minter.Addr, alice, "TEST", uint128.From64(100), "")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(100), minted)

		balance, err := f.eng.Ledger.GetBalance("TEST", alice)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(100), balance)

		// Funded minting moves the pre-counted allocation; supply is unchanged.
		tt, err := f.eng.Ledger.GetTotem("TEST")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(1000), tt.Supply)
	})

	t.Run("measured_not_declared", func(t *testing.T) {
		f, minter := setup(t)
		minter.Shortchange = true

		minted, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.Zero, minter.Addr, alice, "TEST", uint128.From64(100), "")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(50), minted, "minted amount is the recipient's measured delta")

		balance, err := f.eng.Ledger.GetBalance("TEST", alice)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(50), balance)
	})

	t.Run("hooks_receive_requested_amount", func(t *testing.T) {
		f := newFixture(t)
		minter := f.publishMinter(t, "funded", false)
		minter.Shortchange = true
		watcher := f.publishRecorder(t, "mint-watch", 0, totem.HookMint)

		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: minter.Addr, Amount: uint128.From64(1000), IsMinter: true}},
			totem.ModList{Mint: []totem.Address{watcher.Addr}}, totem.NullAddress)
		require.NoError(t, err)
		minter.SetupFor["TEST"] = true

		minted, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.Zero, minter.Addr, alice, "TEST", uint128.From64(100), "gift")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(50), minted)

		calls := watcher.CallsFor(totem.HookMint)
		require.Len(t, calls, 1)
		assert.Equal(t, uint128.From64(100), calls[0].Amount, "observers see the requested amount")
		assert.Equal(t, "gift", calls[0].Memo)
		assert.Equal(t, f.eng.Ledger.Address(), calls[0].Origin)
	})

	t.Run("payment_forwarded_to_mod", func(t *testing.T) {
		f, minter := setup(t)
		f.eng.Bank.Deposit(alice, uint128.From64(500))

		_, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.From64(500), minter.Addr, alice, "TEST", uint128.From64(100), "")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(500), f.eng.Bank.Balance(minter.Addr))
		assert.True(t, f.eng.Bank.Balance(alice).IsZero())
	})

	t.Run("not_setup", func(t *testing.T) {
		f, minter := setup(t)
		minter.SetupFor["TEST"] = false

		_, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.Zero, minter.Addr, alice, "TEST", uint128.From64(100), "")
		assert.ErrorIs(t, err, totem.ErrModNotSetup{Mod: minter.Addr, Ticker: "TEST"})
	})

	t.Run("not_allocated_minter", func(t *testing.T) {
		f, _ := setup(t)
		other := f.publishMinter(t, "other", false)
		other.SetupFor["TEST"] = true

		_, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.Zero, other.Addr, alice, "TEST", uint128.From64(100), "")
		assert.ErrorIs(t, err, totem.ErrModNotMinter{Mod: other.Addr})
	})

	t.Run("caller_must_be_minter_account", func(t *testing.T) {
		f, minter := setup(t)
		_, err := f.eng.Ledger.Mint(f.ctx, bob, uint128.Zero, minter.Addr, alice, "TEST", uint128.From64(100), "")
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("failed_mod_reverts_mint", func(t *testing.T) {
		f, minter := setup(t)
		minter.MintErr = errors.New("mod exploded")
		f.eng.Bank.Deposit(alice, uint128.From64(500))

		_, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.From64(500), minter.Addr, alice, "TEST", uint128.From64(100), "")
		require.Error(t, err)

		assert.Equal(t, uint128.From64(500), f.eng.Bank.Balance(alice), "forwarded payment must revert")
		stats, err := f.eng.Ledger.GetStats("TEST")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stats.Mints, "only the allocation mint remains counted")
	})
}

func TestBurn(t *testing.T) {
	f := newFixture(t)
	f.createSimple(t, "TEST")

	t.Run("shrinks_supply_and_max_supply", func(t *testing.T) {
		require.NoError(t, f.eng.Ledger.Burn(f.ctx, alice, "TEST", alice, uint128.From64(300), "cleanup"))

		tt, err := f.eng.Ledger.GetTotem("TEST")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(700), tt.Supply)
		assert.Equal(t, uint128.From64(700), tt.MaxSupply)

		balance, err := f.eng.Ledger.GetBalance("TEST", alice)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(700), balance)
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		err := f.eng.Ledger.Burn(f.ctx, alice, "TEST", alice, uint128.From64(10_000), "")
		assert.ErrorIs(t, err, errs.InsufficientFunds)
	})

	t.Run("unauthorized_caller", func(t *testing.T) {
		err := f.eng.Ledger.Burn(f.ctx, bob, "TEST", alice, uint128.From64(1), "")
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("unknown_totem", func(t *testing.T) {
		err := f.eng.Ledger.Burn(f.ctx, alice, "GHOST", alice, uint128.From64(1), "")
		assert.ErrorIs(t, err, errs.NotFound)
	})
}

func TestTransfer(t *testing.T) {
	t.Run("moves_balance", func(t *testing.T) {
		f := newFixture(t)
		f.createSimple(t, "TEST")

		require.NoError(t, f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, bob, uint128.From64(400), "hello"))

		aliceBalance, _ := f.eng.Ledger.GetBalance("TEST", alice)
		bobBalance, _ := f.eng.Ledger.GetBalance("TEST", bob)
		assert.Equal(t, uint128.From64(600), aliceBalance)
		assert.Equal(t, uint128.From64(400), bobBalance)

		stats, err := f.eng.Ledger.GetStats("TEST")
		require.NoError(t, err)
		assert.Equal(t, uint64(1), stats.Transfers)
		assert.Equal(t, uint64(2), stats.Holders)
	})

	t.Run("self_transfer_counts_but_moves_nothing", func(t *testing.T) {
		f := newFixture(t)
		f.createSimple(t, "TEST")

		require.NoError(t, f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, alice, uint128.From64(5000), ""))

		balance, _ := f.eng.Ledger.GetBalance("TEST", alice)
		assert.Equal(t, uint128.From64(1000), balance)
		stats, _ := f.eng.Ledger.GetStats("TEST")
		assert.Equal(t, uint64(1), stats.Transfers)
		assert.Equal(t, uint64(1), stats.Holders)
	})

	t.Run("emptied_sender_drops_from_holder_count", func(t *testing.T) {
		f := newFixture(t)
		f.createSimple(t, "TEST")

		require.NoError(t, f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, bob, uint128.From64(1000), ""))

		stats, _ := f.eng.Ledger.GetStats("TEST")
		assert.Equal(t, uint64(1), stats.Holders)
	})

	t.Run("unlimited_minter_issues_on_transfer_out", func(t *testing.T) {
		f := newFixture(t)
		unlimited := f.publishMinter(t, "unlimited", true)
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: unlimited.Addr, Amount: uint128.Zero, IsMinter: true}},
			totem.ModList{}, totem.NullAddress)
		require.NoError(t, err)
		unlimited.SetupFor["TEST"] = true

		minted, err := f.eng.Ledger.Mint(f.ctx, alice, uint128.Zero, unlimited.Addr, alice, "TEST", uint128.From64(250), "")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(250), minted)

		tt, err := f.eng.Ledger.GetTotem("TEST")
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(250), tt.Supply, "issuance out of an unlimited minter grows supply")
		assert.Equal(t, uint128.From64(250), tt.MaxSupply)

		modBalance, _ := f.eng.Ledger.GetBalance("TEST", unlimited.Addr)
		assert.True(t, modBalance.IsZero(), "an unlimited minter's balance stays zero")
	})

	t.Run("cannot_credit_unlimited_minter", func(t *testing.T) {
		f := newFixture(t)
		unlimited := f.publishMinter(t, "unlimited", true)
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{
				{Recipient: alice, Amount: uint128.From64(1000)},
				{Recipient: unlimited.Addr, Amount: uint128.Zero, IsMinter: true},
			}, totem.ModList{}, totem.NullAddress)
		require.NoError(t, err)

		err = f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, unlimited.Addr, uint128.From64(1), "")
		assert.ErrorIs(t, err, totem.ErrCannotTransferToUnlimitedMinter)
	})

	t.Run("null_recipient_rejected", func(t *testing.T) {
		f := newFixture(t)
		f.createSimple(t, "TEST")
		err := f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, totem.NullAddress, uint128.From64(1), "")
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("hook_failure_reverts_transfer", func(t *testing.T) {
		f := newFixture(t)
		watcher := f.publishRecorder(t, "transfer-watch", 0, totem.HookTransfer)
		watcher.Callback = func(ctx context.Context, call modtest.Call) error {
			return errors.New("transfer vetoed")
		}
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Transfer: []totem.Address{watcher.Addr}}, totem.NullAddress)
		require.NoError(t, err)

		err = f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, bob, uint128.From64(400), "")
		require.Error(t, err)

		aliceBalance, _ := f.eng.Ledger.GetBalance("TEST", alice)
		assert.Equal(t, uint128.From64(1000), aliceBalance)
		stats, _ := f.eng.Ledger.GetStats("TEST")
		assert.Equal(t, uint64(0), stats.Transfers)
	})

	t.Run("hook_observes_post_mutation_state", func(t *testing.T) {
		f := newFixture(t)
		watcher := f.publishRecorder(t, "transfer-watch", 0, totem.HookTransfer)

		var observed uint128.Uint128
		watcher.Callback = func(ctx context.Context, call modtest.Call) error {
			observed, _ = f.eng.Ledger.GetBalance("TEST", bob)
			return nil
		}
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Transfer: []totem.Address{watcher.Addr}}, totem.NullAddress)
		require.NoError(t, err)

		require.NoError(t, f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, bob, uint128.From64(400), ""))
		assert.Equal(t, uint128.From64(400), observed, "state is mutated before hooks are notified")
	})

	t.Run("reentrant_transfer_from_hook_allowed", func(t *testing.T) {
		f := newFixture(t)
		watcher := f.publishRecorder(t, "transfer-watch", 0, totem.HookTransfer)

		first := true
		watcher.Callback = func(ctx context.Context, call modtest.Call) error {
			if !first {
				return nil
			}
			first = false
			// Plain mutating operations are unguarded: a hook may call back in.
			return f.eng.Ledger.Transfer(ctx, bob, "TEST", bob, alice, uint128.From64(100), "bounce")
		}
		err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
			[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
			totem.ModList{Transfer: []totem.Address{watcher.Addr}}, totem.NullAddress)
		require.NoError(t, err)

		require.NoError(t, f.eng.Ledger.Transfer(f.ctx, alice, "TEST", alice, bob, uint128.From64(400), ""))

		aliceBalance, _ := f.eng.Ledger.GetBalance("TEST", alice)
		bobBalance, _ := f.eng.Ledger.GetBalance("TEST", bob)
		assert.Equal(t, uint128.From64(700), aliceBalance)
		assert.Equal(t, uint128.From64(300), bobBalance)

		stats, _ := f.eng.Ledger.GetStats("TEST")
		assert.Equal(t, uint64(2), stats.Transfers)
	})
}

func TestTransferOwnership(t *testing.T) {
	f := newFixture(t)
	watcher := f.publishRecorder(t, "ownership-watch", 0, totem.HookTransferOwnership)
	err := f.eng.Ledger.Create(f.ctx, creator, f.params().MinBaseFee, validDetails("TEST"),
		[]totem.Allocation{{Recipient: alice, Amount: uint128.From64(1000)}},
		totem.ModList{TransferOwnership: []totem.Address{watcher.Addr}}, totem.NullAddress)
	require.NoError(t, err)

	t.Run("non_creator_rejected", func(t *testing.T) {
		err := f.eng.Ledger.TransferOwnership(f.ctx, bob, "TEST", bob)
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("null_new_owner_rejected", func(t *testing.T) {
		err := f.eng.Ledger.TransferOwnership(f.ctx, creator, "TEST", totem.NullAddress)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("hands_over_and_notifies", func(t *testing.T) {
		require.NoError(t, f.eng.Ledger.TransferOwnership(f.ctx, creator, "TEST", bob))

		tt, err := f.eng.Ledger.GetTotem("TEST")
		require.NoError(t, err)
		assert.Equal(t, bob, tt.Creator)

		calls := watcher.CallsFor(totem.HookTransferOwnership)
		require.Len(t, calls, 1)
		assert.Equal(t, creator, calls[0].PrevOwner)
		assert.Equal(t, bob, calls[0].NewOwner)

		// The previous creator lost control.
		err = f.eng.Ledger.TransferOwnership(f.ctx, creator, "TEST", creator)
		assert.ErrorIs(t, err, errs.Unauthorized)
	})
}

func TestViews(t *testing.T) {
	f := newFixture(t)
	for _, ticker := range []string{"AAA", "BBB", "CCC"} {
		f.createSimple(t, ticker)
	}

	t.Run("list_totems_pages_in_creation_order", func(t *testing.T) {
		page, nextCursor, hasMore, err := f.eng.Ledger.ListTotems(0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "AAA", page[0].Details.Ticker)
		assert.Equal(t, "BBB", page[1].Details.Ticker)
		assert.Equal(t, uint64(2), nextCursor)
		assert.True(t, hasMore)

		page, _, hasMore, err = f.eng.Ledger.ListTotems(nextCursor, 2)
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, "CCC", page[0].Details.Ticker)
		assert.False(t, hasMore)
	})

	// Unlike the market's ListMods, an out-of-range cursor is an error here.
	t.Run("list_totems_rejects_out_of_range_cursor", func(t *testing.T) {
		_, _, _, err := f.eng.Ledger.ListTotems(3, 10)
		assert.ErrorIs(t, err, totem.ErrInvalidCursor{Cursor: 3, Length: 3})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("get_totems_is_all_or_nothing", func(t *testing.T) {
		batch, err := f.eng.Ledger.GetTotems([]string{"AAA", "CCC"})
		require.NoError(t, err)
		assert.Len(t, batch, 2)

		_, err = f.eng.Ledger.GetTotems([]string{"AAA", "GHOST"})
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("holders_sorted_largest_first", func(t *testing.T) {
		require.NoError(t, f.eng.Ledger.Transfer(f.ctx, alice, "AAA", alice, bob, uint128.From64(100), ""))

		holders, err := f.eng.Ledger.GetHolders("AAA")
		require.NoError(t, err)
		require.Len(t, holders, 2)
		assert.Equal(t, alice, holders[0].Account)
		assert.Equal(t, uint128.From64(900), holders[0].Amount)
		assert.Equal(t, bob, holders[1].Account)
		assert.Equal(t, uint128.From64(100), holders[1].Amount)
	})
}

func TestRelays(t *testing.T) {
	f := newFixture(t)
	f.createSimple(t, "TEST")

	t.Run("create_relay_requires_creator", func(t *testing.T) {
		_, err := f.eng.Ledger.CreateRelay(f.ctx, bob, "TEST", "erc20")
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("create_and_list", func(t *testing.T) {
		addr, err := f.eng.Ledger.CreateRelay(f.ctx, creator, "TEST", "erc20")
		require.NoError(t, err)
		assert.False(t, addr.IsNull())
		assert.True(t, f.eng.Ledger.IsRelay("TEST", addr))

		relays, err := f.eng.Ledger.GetRelays("TEST")
		require.NoError(t, err)
		require.Len(t, relays, 1)
		assert.Equal(t, addr, relays[0].Address)
		assert.Equal(t, "erc20", relays[0].Standard)

		byStandard, err := f.eng.Ledger.GetRelayOfStandard("TEST", "erc20")
		require.NoError(t, err)
		assert.Equal(t, addr, byStandard)

		missing, err := f.eng.Ledger.GetRelayOfStandard("TEST", "erc721")
		require.NoError(t, err)
		assert.True(t, missing.IsNull())
	})

	t.Run("relay_acts_for_any_account", func(t *testing.T) {
		relays, err := f.eng.Ledger.GetRelays("TEST")
		require.NoError(t, err)
		relayAddr := relays[0].Address

		require.NoError(t, f.eng.Ledger.Transfer(f.ctx, relayAddr, "TEST", alice, bob, uint128.From64(10), ""))
		bobBalance, _ := f.eng.Ledger.GetBalance("TEST", bob)
		assert.Equal(t, uint128.From64(10), bobBalance)
	})

	t.Run("remove_relay_revokes_authorization", func(t *testing.T) {
		relays, err := f.eng.Ledger.GetRelays("TEST")
		require.NoError(t, err)
		relayAddr := relays[0].Address

		require.NoError(t, f.eng.Ledger.RemoveRelay(f.ctx, creator, "TEST", relayAddr))
		assert.False(t, f.eng.Ledger.IsRelay("TEST", relayAddr))

		err = f.eng.Ledger.Transfer(f.ctx, relayAddr, "TEST", alice, bob, uint128.From64(10), "")
		assert.ErrorIs(t, err, errs.Unauthorized)

		// Removing an unknown relay is a no-op.
		require.NoError(t, f.eng.Ledger.RemoveRelay(f.ctx, creator, "TEST", relayAddr))
	})

	t.Run("add_external_relay", func(t *testing.T) {
		external := totem.NamedAddress("test/external-relay")
		require.NoError(t, f.eng.Ledger.AddRelay(f.ctx, creator, "TEST", external, "custom"))
		assert.True(t, f.eng.Ledger.IsRelay("TEST", external))

		err := f.eng.Ledger.AddRelay(f.ctx, creator, "TEST", external, "custom")
		assert.ErrorIs(t, err, errs.Duplicate)
	})
}

func TestLicenses(t *testing.T) {
	f := newFixture(t)
	f.createSimple(t, "TEST")

	t.Run("only_proxy_may_set", func(t *testing.T) {
		err := f.eng.Ledger.SetLicenseFromProxy(f.ctx, creator, "TEST", totem.NamedAddress("test/mod"))
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("unknown_totem", func(t *testing.T) {
		err := f.eng.Ledger.SetLicenseFromProxy(f.ctx, f.eng.Proxy.ModAddress(), "GHOST", totem.NamedAddress("test/mod"))
		assert.ErrorIs(t, err, totem.ErrCantSetLicense)
	})

	t.Run("proxy_grants_license", func(t *testing.T) {
		mod := totem.NamedAddress("test/mod")
		assert.False(t, f.eng.Ledger.IsLicensed("TEST", mod))
		require.NoError(t, f.eng.Ledger.SetLicenseFromProxy(f.ctx, f.eng.Proxy.ModAddress(), "TEST", mod))
		assert.True(t, f.eng.Ledger.IsLicensed("TEST", mod))
	})
}
