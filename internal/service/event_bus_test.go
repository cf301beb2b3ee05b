// internal/service/event_bus_test.go
package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"escpos-service/internal/model"
)

func receive(t *testing.T, ch <-chan *model.JobEvent) *model.JobEvent {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func TestEventBusRouting(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	decoded := bus.Subscribe(model.EventJobDecoded)
	all := bus.Subscribe(AllEvents)
	go bus.Start()
	defer bus.Stop()

	bus.Publish(model.NewJobEvent(model.EventCaptureError, "till", nil, nil))
	bus.Publish(model.NewJobEvent(model.EventJobDecoded, "till", nil, nil))

	assert.Equal(t, model.EventCaptureError, receive(t, all).EventType)
	assert.Equal(t, model.EventJobDecoded, receive(t, all).EventType)

	ev := receive(t, decoded)
	assert.Equal(t, model.EventJobDecoded, ev.EventType)
	assert.Equal(t, "INFO", ev.Severity)
}

func TestEventBusUnsubscribe(t *testing.T) {
	bus := NewEventBus(zap.NewNop())
	ch := bus.Subscribe(AllEvents)
	bus.Unsubscribe(AllEvents, ch)

	_, open := <-ch
	require.False(t, open)
	bus.Stop()
	bus.Stop()
}
