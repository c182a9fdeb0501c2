package httphandler

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/uint128"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/datagateway"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

const (
	getEventsMaxLimit = 1000
)

type getEventsRequest struct {
	paginationRequest
	Ticker string `params:"ticker"`
	Kind   string `query:"kind"`
}

var validEventKinds = map[entity.EventKind]struct{}{
	entity.EventKindCreated:           {},
	entity.EventKindMint:              {},
	entity.EventKindBurn:              {},
	entity.EventKindTransfer:          {},
	entity.EventKindTransferOwnership: {},
}

func (r getEventsRequest) Validate() error {
	var errList []error
	if err := totem.ValidateTicker(r.Ticker); err != nil {
		errList = append(errList, err)
	}
	if err := r.paginationRequest.Validate(); err != nil {
		errList = append(errList, err)
	}
	if r.Limit > getEventsMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getEventsMaxLimit))
	}
	if r.Kind != "" {
		if _, ok := validEventKinds[entity.EventKind(r.Kind)]; !ok {
			errList = append(errList, errors.Errorf("invalid kind: %s", r.Kind))
		}
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type eventResult struct {
	Id        int64           `json:"id"`
	Kind      string          `json:"kind"`
	Ticker    string          `json:"ticker"`
	Actor     string          `json:"actor,omitempty"`
	From      string          `json:"from,omitempty"`
	To        string          `json:"to,omitempty"`
	Mod       string          `json:"mod,omitempty"`
	Amount    uint128.Uint128 `json:"amount"`
	Memo      string          `json:"memo,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

func optionalAddress(addr totem.Address) string {
	if addr.IsNull() {
		return ""
	}
	return addr.String()
}

type getEventsResult struct {
	Total uint64        `json:"total"`
	List  []eventResult `json:"list"`
}

type getEventsResponse = HttpResponse[getEventsResult]

func (h *HttpHandler) GetEvents(ctx *fiber.Ctx) (err error) {
	var req getEventsRequest
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

	if _, err := h.usecase.GetTotem(req.Ticker); err != nil {
		if errors.Is(err, errs.NotFound) {
			return errs.NewPublicError("totem not found")
		}
		return errors.Wrap(err, "error during GetTotem")
	}

	events, err := h.usecase.GetTotemEvents(ctx.UserContext(), datagateway.GetTotemEventsParams{
		Ticker: req.Ticker,
		Kind:   entity.EventKind(req.Kind),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return errors.Wrap(err, "error during GetTotemEvents")
	}
	total, err := h.usecase.CountTotemEvents(ctx.UserContext(), req.Ticker)
	if err != nil {
		return errors.Wrap(err, "error during CountTotemEvents")
	}

	result := getEventsResult{
		Total: total,
		List: lo.Map(events, func(event *entity.TotemEvent, _ int) eventResult {
			return eventResult{
				Id:        event.Id,
				Kind:      string(event.Kind),
				Ticker:    event.Ticker,
				Actor:     optionalAddress(event.Actor),
				From:      optionalAddress(event.From),
				To:        optionalAddress(event.To),
				Mod:       optionalAddress(event.Mod),
				Amount:    event.Amount,
				Memo:      event.Memo,
				Timestamp: event.Timestamp,
			}
		}),
	}
	return errors.WithStack(ctx.JSON(getEventsResponse{
		Result: &result,
	}))
}
