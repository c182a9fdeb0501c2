package usecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/modules/totems/datagateway"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
)

func (u *Usecase) GetTotemEvents(ctx context.Context, params datagateway.GetTotemEventsParams) ([]*entity.TotemEvent, error) {
	events, err := u.eventDg.GetTotemEvents(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, "error during GetTotemEvents")
	}
	return events, nil
}

func (u *Usecase) CountTotemEvents(ctx context.Context, ticker string) (uint64, error) {
	count, err := u.eventDg.CountTotemEvents(ctx, ticker)
	if err != nil {
		return 0, errors.Wrap(err, "error during CountTotemEvents")
	}
	return count, nil
}
