package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type getTotemInfoRequest struct {
	Ticker string `params:"ticker"`
}

func (r getTotemInfoRequest) Validate() error {
	return errs.WithPublicMessage(totem.ValidateTicker(r.Ticker), "validation error")
}

type totemModsResult struct {
	Created           []string `json:"created"`
	Mint              []string `json:"mint"`
	Burn              []string `json:"burn"`
	Transfer          []string `json:"transfer"`
	TransferOwnership []string `json:"transferOwnership"`
}

type totemStatsResult struct {
	Mints     uint64 `json:"mints"`
	Burns     uint64 `json:"burns"`
	Transfers uint64 `json:"transfers"`
	Holders   uint64 `json:"holders"`
}

type totemResult struct {
	Ticker              string           `json:"ticker"`
	Name                string           `json:"name"`
	Description         string           `json:"description"`
	Image               string           `json:"image"`
	Website             string           `json:"website,omitempty"`
	Decimals            uint8            `json:"decimals"`
	Creator             string           `json:"creator"`
	IsActive            bool             `json:"isActive"`
	Supply              uint128.Uint128  `json:"supply"`
	MaxSupply           uint128.Uint128  `json:"maxSupply"`
	HasUnlimitedMinters bool             `json:"hasUnlimitedMinters"`
	Mods                totemModsResult  `json:"mods"`
	Stats               totemStatsResult `json:"stats"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

func addressStrings(addrs []totem.Address) []string {
	return lo.Map(addrs, func(addr totem.Address, _ int) string { return addr.String() })
}

func mapTotemResult(t totem.Totem, stats totem.TotemStats) totemResult {
	return totemResult{
		Ticker:              t.Details.Ticker,
		Name:                t.Details.Name,
		Description:         t.Details.Description,
		Image:               t.Details.Image,
		Website:             t.Details.Website,
		Decimals:            t.Details.Decimals,
		Creator:             t.Creator.String(),
		IsActive:            t.IsActive,
		Supply:              t.Supply,
		MaxSupply:           t.MaxSupply,
		HasUnlimitedMinters: t.HasUnlimitedMinters,
		Mods: totemModsResult{
			Created:           addressStrings(t.Mods.Created),
			Mint:              addressStrings(t.Mods.Mint),
			Burn:              addressStrings(t.Mods.Burn),
			Transfer:          addressStrings(t.Mods.Transfer),
			TransferOwnership: addressStrings(t.Mods.TransferOwnership),
		},
		Stats: totemStatsResult{
			Mints:     stats.Mints,
			Burns:     stats.Burns,
			Transfers: stats.Transfers,
			Holders:   stats.Holders,
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type getTotemInfoResponse = HttpResponse[totemResult]

func (h *HttpHandler) GetTotemInfo(ctx *fiber.Ctx) (err error) {
	var req getTotemInfoRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	t, err := h.usecase.GetTotem(req.Ticker)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("totem not found")
		}
		return errors.Wrap(err, "error during GetTotem")
	}
	stats, err := h.usecase.GetStats(req.Ticker)
	if err != nil {
		return errors.Wrap(err, "error during GetStats")
	}

	result := mapTotemResult(t, stats)
	return errors.WithStack(ctx.JSON(getTotemInfoResponse{
		Result: &result,
	}))
}
