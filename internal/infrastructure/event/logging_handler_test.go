package event

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggingHandler_Handle(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := NewLoggingHandler(zap.New(core))

	event := newTestEvent("billing.invoice.paid")
	require.NoError(t, handler.Handle(context.Background(), event))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "domain event", entries[0].Message)
	assert.Equal(t, "billing.invoice.paid", entries[0].ContextMap()["event_type"])
}

func TestLoggingHandler_ReceivesAllEventsThroughBus(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(NewLoggingHandler(zap.New(core)))

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("sales.order.created"),
		newTestEvent("shipping.delivery.shipped"),
	))
	assert.Equal(t, 2, logs.Len())
}
