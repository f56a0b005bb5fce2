package worker

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pureiot/support-service/internal/events"
)

func TestAuditWorker_LogsTicketEvents(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	StartAuditWorker(dispatcher, zap.New(core))

	ctx := context.Background()
	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "e-1", Type: events.EventTicketCreated, TicketID: "t-1", Actor: "Jane Doe"}))
	require.NoError(t, dispatcher.Publish(ctx, events.Event{ID: "e-2", Type: events.EventTicketUpdated, TicketID: "t-1", Actor: "Rob"}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, string(events.EventTicketCreated), entries[0].Message)
	assert.Equal(t, "audit", entries[0].LoggerName)
	assert.Equal(t, "t-1", entries[0].ContextMap()["ticket_id"])
	assert.Equal(t, "Rob", entries[1].ContextMap()["actor"])
}

func TestAuditWorker_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() { StartAuditWorker(nil, zap.NewNop()) })
}
