// Package memory implements the totems datagateways in process memory. Used
// for development runs without Postgres and for tests.
package memory

import (
	"context"
	"sync"

	"github.com/totemlabs/totems-engine/modules/totems/datagateway"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
)

type Repository struct {
	mu     sync.Mutex
	nextId int64
	events []*entity.TotemEvent
}

var _ datagateway.TotemEventDataGateway = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{nextId: 1}
}

func (r *Repository) CreateTotemEvent(_ context.Context, event *entity.TotemEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *event
	stored.Id = r.nextId
	r.nextId++
	r.events = append(r.events, &stored)
	event.Id = stored.Id
	return nil
}

func (r *Repository) GetTotemEvents(_ context.Context, params datagateway.GetTotemEventsParams) ([]*entity.TotemEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*entity.TotemEvent, 0)
	for i := len(r.events) - 1; i >= 0; i-- {
		event := r.events[i]
		if params.Ticker != "" && event.Ticker != params.Ticker {
			continue
		}
		if params.Kind != "" && event.Kind != params.Kind {
			continue
		}
		matched = append(matched, event)
	}

	offset := int(params.Offset)
	if offset >= len(matched) {
		return []*entity.TotemEvent{}, nil
	}
	matched = matched[offset:]
	if limit := int(params.Limit); limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}

	out := make([]*entity.TotemEvent, len(matched))
	for i, event := range matched {
		clone := *event
		out[i] = &clone
	}
	return out, nil
}

func (r *Repository) CountTotemEvents(_ context.Context, ticker string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count uint64
	for _, event := range r.events {
		if event.Ticker == ticker {
			count++
		}
	}
	return count, nil
}
