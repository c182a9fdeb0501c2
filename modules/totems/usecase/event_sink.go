package usecase

import (
	"context"

	"github.com/totemlabs/totems-engine/modules/totems/datagateway"
	"github.com/totemlabs/totems-engine/modules/totems/entity"
	"github.com/totemlabs/totems-engine/modules/totems/ledger"
	"github.com/totemlabs/totems-engine/pkg/logger"
	"github.com/totemlabs/totems-engine/pkg/logger/slogx"
)

// EventRecorder adapts the event datagateway to the ledger's commit sink.
// Persistence failures are logged and swallowed: a committed ledger operation
// must not be failed retroactively by the history store.
type EventRecorder struct {
	dg datagateway.TotemEventWriterDataGateway
}

var _ ledger.EventSink = (*EventRecorder)(nil)

func NewEventRecorder(dg datagateway.TotemEventWriterDataGateway) *EventRecorder {
	return &EventRecorder{dg: dg}
}

func (r *EventRecorder) Append(ctx context.Context, event *entity.TotemEvent) {
	if err := r.dg.CreateTotemEvent(ctx, event); err != nil {
		logger.ErrorContext(ctx, "Failed to persist totem event",
			slogx.Error(err),
			slogx.String("kind", string(event.Kind)),
			slogx.String("ticker", event.Ticker),
		)
	}
}
