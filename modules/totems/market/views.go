package market

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

// GetMod returns a published mod entry.
func (m *Market) GetMod(mod totem.Address) (totem.Mod, error) {
	entry, ok := m.state.mods[mod]
	if !ok {
		return totem.Mod{}, errors.WithStack(totem.ErrModNotFound{Mod: mod})
	}
	return *cloneMod(entry), nil
}

// GetMods returns the published entries among the given addresses, silently
// skipping unpublished ones. The result may be shorter than the input.
func (m *Market) GetMods(mods []totem.Address) []totem.Mod {
	result := make([]totem.Mod, 0, len(mods))
	for _, mod := range mods {
		if entry, ok := m.state.mods[mod]; ok {
			result = append(result, *cloneMod(entry))
		}
	}
	return result
}

// ListMods pages through published mods in publish order. A cursor at or past
// the list length returns an empty page with hasMore=false rather than
// failing.
func (m *Market) ListMods(cursor, limit uint64) (page []totem.Mod, nextCursor uint64, hasMore bool) {
	length := uint64(len(m.state.order))
	if cursor >= length {
		return []totem.Mod{}, cursor, false
	}
	endIdx := cursor + limit
	if limit == 0 || endIdx > length {
		endIdx = length
	}
	page = make([]totem.Mod, 0, endIdx-cursor)
	for _, addr := range m.state.order[cursor:endIdx] {
		page = append(page, *cloneMod(m.state.mods[addr]))
	}
	return page, endIdx, endIdx < length
}

// GetModFee returns the licensing price of a published mod.
func (m *Market) GetModFee(mod totem.Address) (uint128.Uint128, error) {
	entry, ok := m.state.mods[mod]
	if !ok {
		return uint128.Zero, errors.WithStack(totem.ErrModNotFound{Mod: mod})
	}
	return entry.Price, nil
}

// GetModsFee sums the licensing prices of the given mods. Unlike GetMods, it
// fails if any address is unpublished.
func (m *Market) GetModsFee(mods []totem.Address) (uint128.Uint128, error) {
	total := uint128.Zero
	for _, mod := range mods {
		fee, err := m.GetModFee(mod)
		if err != nil {
			return uint128.Zero, errors.WithStack(err)
		}
		total = total.Add(fee)
	}
	return total, nil
}

// GetSupportedHooks returns the hook kinds a mod declared at publish time.
func (m *Market) GetSupportedHooks(mod totem.Address) ([]totem.Hook, error) {
	entry, ok := m.state.mods[mod]
	if !ok {
		return nil, errors.WithStack(totem.ErrModNotFound{Mod: mod})
	}
	return append([]totem.Hook(nil), entry.Hooks...), nil
}

// IsUnlimitedMinter reports whether a mod declared needsUnlimited at publish.
// Returns false for unpublished mods rather than failing; a missing mod must
// never be treated as an unlimited minter.
func (m *Market) IsUnlimitedMinter(mod totem.Address) bool {
	entry, ok := m.state.mods[mod]
	if !ok {
		return false
	}
	return entry.Details.NeedsUnlimited
}
