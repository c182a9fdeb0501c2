package market

import (
	"context"
	"testing"
	"time"

	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/bank"
	"github.com/totemlabs/totems-engine/modules/totems/modkit"
	"github.com/totemlabs/totems-engine/modules/totems/modkit/modtest"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/modules/totems/txn"
)

type fixture struct {
	ctx      context.Context
	market   *Market
	bank     *bank.Bank
	registry *modkit.Registry
	journal  *txn.Journal
	params   Params
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	journal := txn.NewJournal()
	registry := modkit.NewRegistry()
	bk := bank.New(journal)
	params := DefaultParams()
	mkt := New(totem.NamedAddress("test/market"), params, registry, bk, journal,
		WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }))
	return &fixture{
		ctx:      context.Background(),
		market:   mkt,
		bank:     bk,
		registry: registry,
		journal:  journal,
		params:   params,
	}
}

func (f *fixture) deployMod(t *testing.T, name string) *modtest.Recorder {
	t.Helper()
	mod := modtest.NewRecorder(name)
	require.NoError(t, f.registry.Register(mod))
	return mod
}

func validDetails() totem.ModDetails {
	return totem.ModDetails{
		Name:    "Vesting Mod",
		Summary: "Locks allocations behind a vesting schedule.",
		Image:   "ipfs://mods/vesting.png",
	}
}

func TestPublish(t *testing.T) {
	t.Run("happy_path", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		f.bank.Deposit(mod.Seller, f.params.MinBaseFee)

		err := f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookTransfer}, uint128.From64(1000), validDetails(), nil, totem.NullAddress)
		require.NoError(t, err)

		entry, err := f.market.GetMod(mod.Addr)
		require.NoError(t, err)
		assert.Equal(t, mod.Seller, entry.Seller)
		assert.Equal(t, uint128.From64(1000), entry.Price)
		assert.Equal(t, []totem.Hook{totem.HookTransfer}, entry.Hooks)

		// No referrer: the whole base fee is burned.
		assert.Equal(t, f.params.MinBaseFee, f.bank.TotalBurned())
		assert.True(t, f.bank.Balance(mod.Seller).IsZero())
	})

	t.Run("referrer_split", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		referrer := totem.NamedAddress("test/referrer")
		f.bank.Deposit(mod.Seller, f.params.MinBaseFee)

		err := f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookTransfer}, uint128.Zero, validDetails(), nil, referrer)
		require.NoError(t, err)

		assert.Equal(t, f.params.BurnedFee, f.bank.TotalBurned())
		assert.Equal(t, f.params.MinBaseFee.Sub(f.params.BurnedFee), f.bank.Balance(referrer))
	})

	t.Run("excess_payment_refunded", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		payment := f.params.MinBaseFee.Add64(12345)
		f.bank.Deposit(mod.Seller, payment)

		err := f.market.Publish(f.ctx, mod.Seller, payment, mod.Addr,
			[]totem.Hook{totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(12345), f.bank.Balance(mod.Seller))
	})

	t.Run("insufficient_fee", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		short := f.params.MinBaseFee.Sub64(1)
		f.bank.Deposit(mod.Seller, short)

		err := f.market.Publish(f.ctx, mod.Seller, short, mod.Addr,
			[]totem.Hook{totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress)
		assert.ErrorIs(t, err, errs.InsufficientFunds)
	})

	t.Run("not_seller", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		stranger := totem.NamedAddress("test/stranger")
		f.bank.Deposit(stranger, f.params.MinBaseFee)

		err := f.market.Publish(f.ctx, stranger, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress)
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("unregistered_address", func(t *testing.T) {
		f := newFixture(t)
		seller := totem.NamedAddress("test/seller")
		f.bank.Deposit(seller, f.params.MinBaseFee)

		err := f.market.Publish(f.ctx, seller, f.params.MinBaseFee, totem.NamedAddress("test/nocode"),
			[]totem.Hook{totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("already_published", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		f.bank.Deposit(mod.Seller, f.params.MinBaseFee.Add(f.params.MinBaseFee))

		require.NoError(t, f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress))
		err := f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress)
		assert.ErrorIs(t, err, errs.Duplicate)
	})

	t.Run("duplicate_hook", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		f.bank.Deposit(mod.Seller, f.params.MinBaseFee)

		err := f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookMint, totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress)
		assert.ErrorIs(t, err, totem.ErrDuplicateHook{Hook: totem.HookMint})
	})

	t.Run("no_hooks", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		f.bank.Deposit(mod.Seller, f.params.MinBaseFee)

		err := f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			nil, uint128.Zero, validDetails(), nil, totem.NullAddress)
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})

	t.Run("failure_reverts_payment", func(t *testing.T) {
		f := newFixture(t)
		mod := f.deployMod(t, "vesting")
		f.bank.Deposit(mod.Seller, f.params.MinBaseFee)

		details := validDetails()
		details.Name = "ab"
		err := f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookMint}, uint128.Zero, details, nil, totem.NullAddress)
		require.Error(t, err)
		assert.Equal(t, f.params.MinBaseFee, f.bank.Balance(mod.Seller))
		assert.True(t, f.bank.TotalBurned().IsZero())
	})
}

func TestSetReferrerFee(t *testing.T) {
	f := newFixture(t)
	referrer := totem.NamedAddress("test/referrer")

	t.Run("below_minimum", func(t *testing.T) {
		err := f.market.SetReferrerFee(f.ctx, referrer, f.params.MinBaseFee.Sub64(1))
		assert.ErrorIs(t, err, errs.InvalidArgument)
		assert.Equal(t, f.params.MinBaseFee, f.market.GetFee(referrer))
	})

	t.Run("stored_fee_is_effective", func(t *testing.T) {
		custom := f.params.MinBaseFee.Add(f.params.MinBaseFee).Add(f.params.MinBaseFee)
		require.NoError(t, f.market.SetReferrerFee(f.ctx, referrer, custom))
		assert.Equal(t, custom, f.market.GetFee(referrer))
	})

	t.Run("null_referrer_gets_minimum", func(t *testing.T) {
		assert.Equal(t, f.params.MinBaseFee, f.market.GetFee(totem.NullAddress))
	})

	t.Run("unknown_referrer_gets_minimum", func(t *testing.T) {
		assert.Equal(t, f.params.MinBaseFee, f.market.GetFee(totem.NamedAddress("test/unknown")))
	})
}

func TestUpdate(t *testing.T) {
	f := newFixture(t)
	mod := f.deployMod(t, "vesting")
	f.bank.Deposit(mod.Seller, f.params.MinBaseFee)
	require.NoError(t, f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
		[]totem.Hook{totem.HookMint}, uint128.From64(100), validDetails(), nil, totem.NullAddress))

	t.Run("seller_updates_price_and_details", func(t *testing.T) {
		details := validDetails()
		details.Name = "Vesting Mod v2"
		require.NoError(t, f.market.Update(f.ctx, mod.Seller, mod.Addr, uint128.From64(200), details))

		entry, err := f.market.GetMod(mod.Addr)
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(200), entry.Price)
		assert.Equal(t, "Vesting Mod v2", entry.Details.Name)
	})

	t.Run("non_seller_rejected", func(t *testing.T) {
		err := f.market.Update(f.ctx, totem.NamedAddress("test/stranger"), mod.Addr, uint128.Zero, validDetails())
		assert.ErrorIs(t, err, errs.Unauthorized)
	})

	t.Run("unpublished_mod", func(t *testing.T) {
		err := f.market.Update(f.ctx, mod.Seller, totem.NamedAddress("test/ghost"), uint128.Zero, validDetails())
		assert.ErrorIs(t, err, errs.NotFound)
	})

	t.Run("seller_replaces_required_actions", func(t *testing.T) {
		actions := []totem.RequiredAction{{
			Signature: "approve(address,uint256)",
			Cost:      uint128.From64(1),
			Reason:    "grant the vesting contract spending rights",
		}}
		require.NoError(t, f.market.UpdateRequiredActions(f.ctx, mod.Seller, mod.Addr, actions))

		entry, err := f.market.GetMod(mod.Addr)
		require.NoError(t, err)
		require.Len(t, entry.RequiredActions, 1)
		assert.Equal(t, "approve(address,uint256)", entry.RequiredActions[0].Signature)

		// The whole list is replaced, not merged.
		require.NoError(t, f.market.UpdateRequiredActions(f.ctx, mod.Seller, mod.Addr, nil))
		entry, err = f.market.GetMod(mod.Addr)
		require.NoError(t, err)
		assert.Empty(t, entry.RequiredActions)
	})

	t.Run("required_actions_seller_only", func(t *testing.T) {
		err := f.market.UpdateRequiredActions(f.ctx, totem.NamedAddress("test/stranger"), mod.Addr, nil)
		assert.ErrorIs(t, err, errs.Unauthorized)
	})
}

func TestListMods(t *testing.T) {
	f := newFixture(t)
	var published []totem.Address
	for _, name := range []string{"one", "two", "three"} {
		mod := f.deployMod(t, name)
		f.bank.Deposit(mod.Seller, f.params.MinBaseFee)
		require.NoError(t, f.market.Publish(f.ctx, mod.Seller, f.params.MinBaseFee, mod.Addr,
			[]totem.Hook{totem.HookMint}, uint128.Zero, validDetails(), nil, totem.NullAddress))
		published = append(published, mod.Addr)
	}

	t.Run("publish_order", func(t *testing.T) {
		page, nextCursor, hasMore := f.market.ListMods(0, 10)
		require.Len(t, page, 3)
		assert.Equal(t, uint64(3), nextCursor)
		assert.False(t, hasMore)
		for i, entry := range page {
			assert.Equal(t, published[i], entry.Mod)
		}
	})

	t.Run("paged", func(t *testing.T) {
		page, nextCursor, hasMore := f.market.ListMods(0, 2)
		require.Len(t, page, 2)
		assert.Equal(t, uint64(2), nextCursor)
		assert.True(t, hasMore)

		page, nextCursor, hasMore = f.market.ListMods(nextCursor, 2)
		require.Len(t, page, 1)
		assert.Equal(t, uint64(3), nextCursor)
		assert.False(t, hasMore)
	})

	// A cursor past the end yields an empty page, not an error. The ledger's
	// ListTotems fails instead; the asymmetry is deliberate.
	t.Run("cursor_past_end", func(t *testing.T) {
		page, nextCursor, hasMore := f.market.ListMods(100, 10)
		assert.Empty(t, page)
		assert.Equal(t, uint64(100), nextCursor)
		assert.False(t, hasMore)
	})
}

func TestGetModsFee(t *testing.T) {
	f := newFixture(t)
	one := f.deployMod(t, "one")
	two := f.deployMod(t, "two")
	f.bank.Deposit(one.Seller, f.params.MinBaseFee)
	f.bank.Deposit(two.Seller, f.params.MinBaseFee)
	require.NoError(t, f.market.Publish(f.ctx, one.Seller, f.params.MinBaseFee, one.Addr,
		[]totem.Hook{totem.HookMint}, uint128.From64(100), validDetails(), nil, totem.NullAddress))
	require.NoError(t, f.market.Publish(f.ctx, two.Seller, f.params.MinBaseFee, two.Addr,
		[]totem.Hook{totem.HookMint}, uint128.From64(250), validDetails(), nil, totem.NullAddress))

	total, err := f.market.GetModsFee([]totem.Address{one.Addr, two.Addr})
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(350), total)

	// GetModsFee is strict: any unpublished address fails the batch.
	_, err = f.market.GetModsFee([]totem.Address{one.Addr, totem.NamedAddress("test/ghost")})
	assert.ErrorIs(t, err, errs.NotFound)

	// GetMods is lenient: unpublished addresses are skipped.
	entries := f.market.GetMods([]totem.Address{one.Addr, totem.NamedAddress("test/ghost")})
	assert.Len(t, entries, 1)
}
