package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/totemlabs/totems-engine/common/errs"
	"github.com/totemlabs/totems-engine/modules/totems/datagateway"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
)

var _ datagateway.TotemEventDataGateway = (*Repository)(nil)

const insertTotemEvent = `
INSERT INTO totems_events (kind, ticker, actor, from_account, to_account, mod, amount, memo, "timestamp")
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING id
`

func (r *Repository) CreateTotemEvent(ctx context.Context, event *entity.TotemEvent) error {
	if event == nil {
		return errors.Wrap(errs.InvalidArgument, "event must not be nil")
	}
	model, err := mapTotemEventTypeToModel(event)
	if err != nil {
		return errors.Wrap(err, "failed to map event to model")
	}
	if err := r.db.QueryRow(ctx, insertTotemEvent,
		model.Kind,
		model.Ticker,
		model.Actor,
		model.FromAccount,
		model.ToAccount,
		model.Mod,
		model.Amount,
		model.Memo,
		model.Timestamp,
	).Scan(&event.Id); err != nil {
		return errors.Wrap(err, "error during exec")
	}
	return nil
}

const selectTotemEvents = `
SELECT id, kind, ticker, actor, from_account, to_account, mod, amount, memo, "timestamp"
FROM totems_events
WHERE ($1 = '' OR ticker = $1) AND ($2 = '' OR kind = $2)
ORDER BY id DESC
LIMIT $3 OFFSET $4
`

func (r *Repository) GetTotemEvents(ctx context.Context, params datagateway.GetTotemEventsParams) ([]*entity.TotemEvent, error) {
	rows, err := r.db.Query(ctx, selectTotemEvents, params.Ticker, string(params.Kind), params.Limit, params.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "error during query")
	}
	defer rows.Close()

	events := make([]*entity.TotemEvent, 0)
	for rows.Next() {
		var model totemEventModel
		if err := rows.Scan(
			&model.Id,
			&model.Kind,
			&model.Ticker,
			&model.Actor,
			&model.FromAccount,
			&model.ToAccount,
			&model.Mod,
			&model.Amount,
			&model.Memo,
			&model.Timestamp,
		); err != nil {
			return nil, errors.Wrap(err, "error during scan")
		}
		event, err := mapTotemEventModelToType(model)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse event model")
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error during iteration")
	}
	return events, nil
}

const countTotemEvents = `
SELECT count(*) FROM totems_events WHERE ticker = $1
`

func (r *Repository) CountTotemEvents(ctx context.Context, ticker string) (uint64, error) {
	var count uint64
	if err := r.db.QueryRow(ctx, countTotemEvents, ticker).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "error during query")
	}
	return count, nil
}
