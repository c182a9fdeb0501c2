package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/totem"
)

const (
	getModsMaxLimit = 1000
)

type getModsRequest struct {
	cursorRequest
}

func (r getModsRequest) Validate() error {
	var errList []error
	if r.Limit > getModsMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getModsMaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getModsResult struct {
	List       []modResult `json:"list"`
	NextCursor uint64      `json:"nextCursor"`
	HasMore    bool        `json:"hasMore"`
}

type getModsResponse = HttpResponse[getModsResult]

func (h *HttpHandler) GetMods(ctx *fiber.Ctx) (err error) {
	var req getModsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	page, nextCursor, hasMore := h.usecase.ListMods(req.Cursor, req.Limit)

	result := getModsResult{
		List: lo.Map(page, func(m totem.Mod, _ int) modResult {
			return mapModResult(m)
		}),
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
	return errors.WithStack(ctx.JSON(getModsResponse{
		Result: &result,
	}))
}
