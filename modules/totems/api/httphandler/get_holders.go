package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
	"github.com/totemlabs/totems-engine/pkg/decimals"
)

const (
	getHoldersMaxLimit = 1000
)

type getHoldersRequest struct {
	paginationRequest
	Ticker string `params:"ticker"`
}

func (r getHoldersRequest) Validate() error {
	var errList []error
	if err := totem.ValidateTicker(r.Ticker); err != nil {
		errList = append(errList, err)
	}
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	if r.Limit > getHoldersMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getHoldersMaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type holdingBalance struct {
	Address string          `json:"address"`
	Amount  uint128.Uint128 `json:"amount"`
	Percent float64         `json:"percent"`
}

type getHoldersResult struct {
	TotalSupply  uint128.Uint128  `json:"totalSupply"`
	Decimals     uint8            `json:"decimals"`
	TotalHolders int              `json:"totalHolders"`
	List         []holdingBalance `json:"list"`
}

type getHoldersResponse = HttpResponse[getHoldersResult]

func (h *HttpHandler) GetHolders(ctx *fiber.Ctx) (err error) {
	var req getHoldersRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	t, err := h.usecase.GetTotem(req.Ticker)
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("totem not found")
		}
		return errors.Wrap(err, "error during GetTotem")
	}
	holders, err := h.usecase.GetHolders(req.Ticker)
	if err != nil {
		return errors.Wrap(err, "error during GetHolders")
	}
	totalHolders := len(holders)

	offset := int(req.Offset)
	if offset > len(holders) {
		offset = len(holders)
	}
	holders = holders[offset:]
	if limit := int(req.Limit); limit < len(holders) {
		holders = holders[:limit]
	}

	supply := decimals.ToDecimal(t.Supply, t.Details.Decimals)
	list := make([]holdingBalance, 0, len(holders))
	for _, holder := range holders {
		var percent float64
		if !t.Supply.IsZero() {
			amount := decimals.ToDecimal(holder.Amount, t.Details.Decimals)
			percent, _ = amount.Div(supply).Float64()
		}
		list = append(list, holdingBalance{
			Address: holder.Account.String(),
			Amount:  holder.Amount,
			Percent: percent,
		})
	}

	result := getHoldersResult{
		TotalSupply:  t.Supply,
		Decimals:     t.Details.Decimals,
		TotalHolders: totalHolders,
		List:         list,
	}
	return errors.WithStack(ctx.JSON(getHoldersResponse{
		Result: &result,
	}))
}
