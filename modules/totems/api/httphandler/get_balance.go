package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

type getBalanceRequest struct {
	Ticker  string `params:"ticker"`
	Address string `params:"address"`
}

func (r getBalanceRequest) Validate() error {
	return errs.WithPublicMessage(totem.ValidateTicker(r.Ticker), "validation error")
}

type getBalanceResult struct {
	Ticker  string          `json:"ticker"`
	Address string          `json:"address"`
	Amount  uint128.Uint128 `json:"amount"`
}

type getBalanceResponse = HttpResponse[getBalanceResult]

func (h *HttpHandler) GetBalance(ctx *fiber.Ctx) (err error) {
	var req getBalanceRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	address, err := resolveAddress(req.Address)
	if err != nil {
		return errors.WithStack(err)
	}

	amount, err := h.usecase.GetBalance(req.Ticker, address)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("totem not found")
		}
		return errors.Wrap(err, "error during GetBalance")
	}

	result := getBalanceResult{
		Ticker:  req.Ticker,
		Address: address.String(),
		Amount:  amount,
	}
	return errors.WithStack(ctx.JSON(getBalanceResponse{
		Result: &result,
	}))
}
