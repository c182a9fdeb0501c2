package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type getRelaysRequest struct {
	Ticker string `params:"ticker"`
}

func (r getRelaysRequest) Validate() error {
	return errs.WithPublicMessage(totem.ValidateTicker(r.Ticker), "validation error")
}

type relayResult struct {
	Address  string `json:"address"`
	Standard string `json:"standard"`
}

type getRelaysResult struct {
	List []relayResult `json:"list"`
}

type getRelaysResponse = HttpResponse[getRelaysResult]

func (h *HttpHandler) GetRelays(ctx *fiber.Ctx) (err error) {
	var req getRelaysRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}

	relays, err := h.usecase.GetRelays(req.Ticker)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("totem not found")
		}
		return errors.Wrap(err, "error during GetRelays")
	}

	result := getRelaysResult{
		List: lo.Map(relays, func(r totem.Relay, _ int) relayResult {
			return relayResult{
				Address:  r.Address.String(),
				Standard: r.Standard,
			}
		}),
	}
	return errors.WithStack(ctx.JSON(getRelaysResponse{
		Result: &result,
	}))
}
