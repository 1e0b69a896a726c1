package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var eventTime = time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "TestAggregate", uuid.New(), eventTime),
		Data:            "test data",
	}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any
	mu         sync.Mutex
	handled    []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	h.handled = append(h.handled, event)
	h.mu.Unlock()
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("HouseCreated")
	bus.Subscribe(handler)

	e1, e2 := newTestEvent("HouseCreated"), newTestEvent("HouseCreated")
	require.NoError(t, bus.Publish(context.Background(), e1, e2))

	require.Equal(t, 2, handler.count())
	assert.Equal(t, e1, handler.handled[0])
}

func TestInMemoryEventBus_ExplicitTypesOverrideHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("HouseCreated")
	bus.Subscribe(handler, "HouseDeleted")

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("HouseCreated"), newTestEvent("HouseDeleted")))
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBus_Wildcard(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	typed := newTestHandler("HouseCreated")
	all := newTestHandler()
	bus.Subscribe(typed)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("HouseCreated"), newTestEvent("OfficeBearerAppointed")))
	assert.Equal(t, 1, typed.count())
	assert.Equal(t, 2, all.count())
}

func TestInMemoryEventBus_FailingHandlersAreIsolated(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	bus := NewInMemoryEventBus(zap.New(core))

	failing := newTestHandler("E")
	failing.err = errors.New("disk full")
	panicking := newTestHandler("E")
	panicking.panicWith = "boom"
	healthy := newTestHandler("E")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("E")))

	assert.Equal(t, 1, healthy.count())
	entries := logs.FilterMessage("Event handler failed").All()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].ContextMap()["error"], "handler panicked: boom")
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("E")
	bus.Subscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("E"))

	bus.Unsubscribe(handler)
	_ = bus.Publish(context.Background(), newTestEvent("E"))

	assert.Equal(t, 1, handler.count())
	assert.Empty(t, bus.registry.Handlers("E"))
}

func TestInMemoryEventBus_StopDropsEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := newTestHandler("E")
	bus.Subscribe(handler)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("E")))
	assert.Equal(t, 0, handler.count())

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("E")))
	assert.Equal(t, 1, handler.count())
}
