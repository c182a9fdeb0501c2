package usecase

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

func (u *Usecase) GetMod(mod totem.Address) (entry totem.Mod, err error) {
	u.journal.View(func() {
		entry, err = u.market.GetMod(mod)
	})
	if err != nil {
		return totem.Mod{}, errors.Wrap(err, "error during GetMod")
	}
	return entry, nil
}

func (u *Usecase) ListMods(cursor, limit uint64) (page []totem.Mod, nextCursor uint64, hasMore bool) {
	u.journal.View(func() {
		page, nextCursor, hasMore = u.market.ListMods(cursor, limit)
	})
	return page, nextCursor, hasMore
}

// GetLicensingFee quotes the total cost of licensing the given mods at totem
// creation, including the base fee for the given referrer.
func (u *Usecase) GetLicensingFee(mods []totem.Address, referrer totem.Address) (uint128.Uint128, error) {
	var (
		modsFee uint128.Uint128
		err     error
	)
	u.journal.View(func() {
		modsFee, err = u.market.GetModsFee(mods)
		if err == nil {
			modsFee = modsFee.Add(u.market.GetFee(referrer))
		}
	})
	if err != nil {
		return uint128.Zero, errors.Wrap(err, "error during GetModsFee")
	}
	return modsFee, nil
}
