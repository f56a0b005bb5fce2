package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/pureiot/support-service/internal/events"
)

// StartAuditWorker subscribes a structured audit log to every ticket event.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	if dispatcher == nil {
		return
	}
	audit := logger.Named("audit")
	handler := func(ctx context.Context, event events.Event) error {
		audit.Info(string(event.Type),
			zap.String("event_id", event.ID),
			zap.String("ticket_id", event.TicketID),
			zap.String("actor", event.Actor),
			zap.Time("timestamp", event.Timestamp),
			zap.Any("payload", event.Payload))
		return nil
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventTicketCommentAdded,
	} {
		dispatcher.Subscribe(eventType, handler)
	}
}
