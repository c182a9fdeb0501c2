package httphandler

import (
	"github.com/cockroachdb/errors"
	"github.com/gofiber/fiber/v2"
	"github.com/totemlabs/totems-engine/common/errs"
	"golang.org/x/sync/errgroup"
)

const (
	getTotemsMaxLimit = 1000
)

type getTotemsRequest struct {
	cursorRequest
}

func (r getTotemsRequest) Validate() error {
	var errList []error
	if r.Limit > getTotemsMaxLimit {
		errList = append(errList, errors.Errorf("'limit' cannot exceed %d", getTotemsMaxLimit))
	}
	return errs.WithPublicMessage(errors.Join(errList...), "validation error")
}

type getTotemsResult struct {
	List       []totemResult `json:"list"`
	NextCursor uint64        `json:"nextCursor"`
	HasMore    bool          `json:"hasMore"`
}

type getTotemsResponse = HttpResponse[getTotemsResult]

func (h *HttpHandler) GetTotems(ctx *fiber.Ctx) (err error) {
	var req getTotemsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := req.Validate(); err != nil {
		return errors.WithStack(err)
	}
	if err := req.ParseDefault(); err != nil {
		return errors.WithStack(err)
	}

	page, nextCursor, hasMore, err := h.usecase.ListTotems(req.Cursor, req.Limit)
	if err != nil {
		if errors.Is(err, errs.InvalidArgument) {
			return errs.WithPublicMessage(err, "cursor is out of range")
		}
		return errors.Wrap(err, "error during ListTotems")
	}

	list := make([]totemResult, len(page))
	eg, _ := errgroup.WithContext(ctx.UserContext())
	for i, t := range page {
		i := i
		t := t
		eg.Go(func() error {
			stats, err := h.usecase.GetStats(t.Details.Ticker)
			if err != nil {
				return errors.Wrapf(err, "error during GetStats for totem %q", t.Details.Ticker)
			}
			list[i] = mapTotemResult(t, stats)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return errors.WithStack(err)
	}

	result := getTotemsResult{
		List:       list,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}
	return errors.WithStack(ctx.JSON(getTotemsResponse{
		Result: &result,
	}))
}
