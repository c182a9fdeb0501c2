package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type getStatsRequest struct {
	Ticker string `params:"ticker"`
}

func (r getStatsRequest) Validate() error {
	return errs.WithPublicMessage(totem.ValidateTicker(r.Ticker), "validation error")
}

type getStatsResponse = HttpResponse[totemStatsResult]

func (h *HttpHandler) GetStats(ctx *fiber.Ctx) (err error) {
	var req getStatsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	stats, err := h.usecase.GetStats(req.Ticker)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("totem not found")
		}
		return errors.Wrap(err, "error during GetStats")
	}

	result := totemStatsResult{
		Mints:     stats.Mints,
		Burns:     stats.Burns,
		Transfers: stats.Transfers,
		Holders:   stats.Holders,
	}
	return errors.WithStack(ctx.JSON(getStatsResponse{
		Result: &result,
	}))
}
