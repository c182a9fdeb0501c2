package datagateway

import (
	"context"

	"github.com/totemlabs/totems-engine/modules/totems/entity"
)

// GetTotemEventsParams filters the event history query. Zero-value fields are
// ignored.
type GetTotemEventsParams struct {
	Ticker string
	Kind   entity.EventKind
	Limit  int32
	Offset int32
}

type TotemEventDataGateway interface {
	TotemEventReaderDataGateway
	TotemEventWriterDataGateway
}

type TotemEventReaderDataGateway interface {
	// GetTotemEvents returns committed events, newest first.
	GetTotemEvents(ctx context.Context, params GetTotemEventsParams) ([]*entity.TotemEvent, error)
	// CountTotemEvents returns the number of committed events of a totem.
	CountTotemEvents(ctx context.Context, ticker string) (uint64, error)
}

type TotemEventWriterDataGateway interface {
	CreateTotemEvent(ctx context.Context, event *entity.TotemEvent) error
}
