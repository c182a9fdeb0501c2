package httphandler

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type getModFeeRequest struct {
	// Addresses is a comma-separated list of mod addresses to license.
	Addresses string `query:"addresses"`
	Referrer  string `query:"referrer"`
}

type getModFeeResult struct {
	TotalFee uint128.Uint128 `json:"totalFee"`
}

type getModFeeResponse = HttpResponse[getModFeeResult]

func (h *HttpHandler) GetModFee(ctx *fiber.Ctx) (err error) {
	var req getModFeeRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}

	var mods []totem.Address
	if req.Addresses != "" {
		for _, raw := range strings.Split(req.Addresses, ",") {
			addr, err := resolveAddress(strings.TrimSpace(raw))
			if err != nil {
				return errors.WithStack(err)
			}
			mods = append(mods, addr)
		}
	}
	referrer := totem.NullAddress
	if req.Referrer != "" {
		referrer, err = resolveAddress(req.Referrer)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	totalFee, err := h.usecase.GetLicensingFee(mods, referrer)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("mod not found")
		}
		return errors.Wrap(err, "error during GetLicensingFee")
	}

	result := getModFeeResult{TotalFee: totalFee}
	return errors.WithStack(ctx.JSON(getModFeeResponse{
		Result: &result,
	}))
}
