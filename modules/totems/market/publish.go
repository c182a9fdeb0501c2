package market

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

// SetReferrerFee sets the caller's own referrer fee. Anyone may set their own
// entry; the fee must be at least the minimum base fee.
func (m *Market) SetReferrerFee(ctx context.Context, caller totem.Address, fee uint128.Uint128) (err error) {
	end := m.journal.Begin()
	defer func() { end(&err) }()

	if fee.Cmp(m.params.MinBaseFee) < 0 {
		return errors.WithStack(totem.ErrReferrerFeeTooLow{Fee: fee, Min: m.params.MinBaseFee})
	}
	m.state.referrerFees[caller] = fee
	return nil
}

// GetFee returns the effective base fee for a referrer: the minimum base fee
// for the null address or a referrer without a qualifying stored fee,
// otherwise the referrer's stored fee. Never fails.
func (m *Market) GetFee(referrer totem.Address) uint128.Uint128 {
	if referrer.IsNull() {
		return m.params.MinBaseFee
	}
	fee, ok := m.state.referrerFees[referrer]
	if !ok || fee.Cmp(m.params.MinBaseFee) < 0 {
		return m.params.MinBaseFee
	}
	return fee
}

// Publish registers a mod for sale. The caller must be the mod's seller, pays
// the base fee (split between burn sink and referrer), and any excess payment
// is refunded.
func (m *Market) Publish(ctx context.Context, caller totem.Address, payment uint128.Uint128, mod totem.Address, hooks []totem.Hook, price uint128.Uint128, details totem.ModDetails, requiredActions []totem.RequiredAction, referrer totem.Address) (err error) {
	release, err := m.guard.Enter()
	if err != nil {
		return errors.WithStack(err)
	}
	defer release()

	end := m.journal.Begin()
	defer func() { end(&err) }()

	if mod.IsNull() {
		return errors.Wrap(errs.InvalidArgument, "mod address must not be null")
	}
	impl, ok := m.registry.Lookup(mod)
	if !ok {
		return errors.Wrapf(errs.InvalidArgument, "mod %s has no code", mod)
	}
	if _, published := m.state.mods[mod]; published {
		return errors.WithStack(totem.ErrModAlreadyPublished{Mod: mod})
	}
	if impl.GetSeller() != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the mod's seller")
	}
	if err := details.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if len(hooks) == 0 {
		return errors.Wrap(errs.InvalidArgument, "mod must declare at least one hook")
	}
	seen := make(map[totem.Hook]struct{}, len(hooks))
	for _, hook := range hooks {
		if !hook.IsValid() {
			return errors.Wrapf(errs.InvalidArgument, "invalid hook value %d", hook)
		}
		if _, dup := seen[hook]; dup {
			return errors.WithStack(totem.ErrDuplicateHook{Hook: hook})
		}
		seen[hook] = struct{}{}
	}

	fee := m.GetFee(referrer)
	if payment.Cmp(fee) < 0 {
		return errors.WithStack(totem.ErrInsufficientFee{Required: fee, Provided: payment})
	}
	if err := m.bank.Transfer(caller, m.address, payment); err != nil {
		return errors.Wrap(err, "failed to collect payment")
	}
	if err := m.disburseBaseFee(referrer, fee); err != nil {
		return errors.WithStack(err)
	}
	// Refund excess payment to the caller.
	if err := m.bank.Transfer(m.address, caller, payment.Sub(fee)); err != nil {
		return errors.Wrap(err, "failed to refund excess payment")
	}

	now := m.now()
	entry := &totem.Mod{
		Mod:             mod,
		Seller:          caller,
		Price:           price,
		Details:         details,
		Hooks:           append([]totem.Hook(nil), hooks...),
		RequiredActions: cloneRequiredActions(requiredActions),
		PublishedAt:     now,
		UpdatedAt:       now,
	}
	m.state.mods[mod] = entry
	m.state.order = append(m.state.order, mod)

	logger.InfoContext(ctx, "Published mod",
		slogx.Stringer("mod", mod),
		slogx.Stringer("seller", caller),
		slogx.Stringer("price", price),
	)
	return nil
}

// disburseBaseFee burns and pays out a collected base fee. With a referrer,
// the burned slice goes to the sink and the remainder to the referrer; with no
// referrer the whole fee is burned.
func (m *Market) disburseBaseFee(referrer totem.Address, fee uint128.Uint128) error {
	if referrer.IsNull() {
		if err := m.bank.Burn(m.address, fee); err != nil {
			return errors.Wrap(err, "failed to burn base fee")
		}
		return nil
	}
	if err := m.bank.Burn(m.address, m.params.BurnedFee); err != nil {
		return errors.Wrap(err, "failed to burn fee slice")
	}
	if err := m.bank.Transfer(m.address, referrer, fee.Sub(m.params.BurnedFee)); err != nil {
		return errors.Wrap(err, "failed to pay referrer")
	}
	return nil
}

// Update changes a published mod's price and details. Seller only, no fee.
func (m *Market) Update(ctx context.Context, caller totem.Address, mod totem.Address, newPrice uint128.Uint128, details totem.ModDetails) (err error) {
	release, err := m.guard.Enter()
	if err != nil {
		return errors.WithStack(err)
	}
	defer release()

	end := m.journal.Begin()
	defer func() { end(&err) }()

	entry, ok := m.state.mods[mod]
	if !ok {
		return errors.WithStack(totem.ErrModNotFound{Mod: mod})
	}
	if entry.Seller != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the mod's seller")
	}
	if err := details.Validate(); err != nil {
		return errors.WithStack(err)
	}

	entry.Price = newPrice
	entry.Details = details
	entry.UpdatedAt = m.now()
	return nil
}

// UpdateRequiredActions replaces the entire required-action list of a mod.
// Seller only.
func (m *Market) UpdateRequiredActions(ctx context.Context, caller totem.Address, mod totem.Address, actions []totem.RequiredAction) (err error) {
	end := m.journal.Begin()
	defer func() { end(&err) }()

	entry, ok := m.state.mods[mod]
	if !ok {
		return errors.WithStack(totem.ErrModNotFound{Mod: mod})
	}
	if entry.Seller != caller {
		return errors.Wrap(totem.ErrUnauthorized, "caller is not the mod's seller")
	}

	entry.RequiredActions = cloneRequiredActions(actions)
	entry.UpdatedAt = m.now()
	return nil
}
