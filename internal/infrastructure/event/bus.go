// Package event delivers domain events to in-process subscribers such as the audit trail.
package event

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/colony/backend/internal/domain/shared"
	"github.com/colony/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// InMemoryEventBus implements shared.EventBus by calling subscribers synchronously,
// in subscription order. A failing or panicking handler is logged and skipped;
// Publish never fails the operation that raised the event.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	stopped  atomic.Bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(log *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   log,
	}
}

// Publish hands every event to its subscribers. Events published after Stop are dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if b.stopped.Load() {
		b.logger.Warn("Event bus stopped, dropping events", zap.Int("count", len(events)))
		return nil
	}

	log := logger.Enrich(ctx, b.logger)
	for _, event := range events {
		for _, handler := range b.registry.Handlers(event.EventType()) {
			if err := dispatch(ctx, handler, event); err != nil {
				log.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers handler for eventTypes, or for handler.EventTypes() when none are given.
// A handler with no types at all receives every event.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("Event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start (re)enables delivery
func (b *InMemoryEventBus) Start(context.Context) error {
	b.stopped.Store(false)
	b.logger.Info("Event bus started")
	return nil
}

// Stop disables delivery. Delivery is synchronous, so nothing is in flight once
// the publishing calls have returned.
func (b *InMemoryEventBus) Stop(context.Context) error {
	b.stopped.Store(true)
	b.logger.Info("Event bus stopped")
	return nil
}

func dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
