// internal/handler/event_bus.go
package handler

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"wavegen/internal/model"
)

// allEvents is the subscription key that receives every event type
const allEvents model.EventType = "*"

// EventBus manages event distribution
type EventBus struct {
	subscribers map[model.EventType][]chan model.GeneratorEvent
	events      chan model.GeneratorEvent
	mutex       sync.RWMutex
	logger      *zap.Logger
}

// NewEventBus creates a new event bus
func NewEventBus(logger *zap.Logger) *EventBus {
	return &EventBus{
		subscribers: make(map[model.EventType][]chan model.GeneratorEvent),
		events:      make(chan model.GeneratorEvent, 1000),
		logger:      logger,
	}
}

// Run distributes published events until ctx is done
func (eb *EventBus) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-eb.events:
			eb.distributeEvent(event)
		}
	}
}

// Publish publishes an event without blocking
func (eb *EventBus) Publish(event model.GeneratorEvent) {
	select {
	case eb.events <- event:
	default:
		eb.logger.Warn("Event bus full, dropping event",
			zap.String("event_type", string(event.EventType)),
		)
	}
}

// Subscribe subscribes to events of a specific type
func (eb *EventBus) Subscribe(eventType model.EventType) <-chan model.GeneratorEvent {
	eb.mutex.Lock()
	defer eb.mutex.Unlock()

	subscriber := make(chan model.GeneratorEvent, 100)
	eb.subscribers[eventType] = append(eb.subscribers[eventType], subscriber)
	return subscriber
}

// SubscribeAll subscribes to every event type
func (eb *EventBus) SubscribeAll() <-chan model.GeneratorEvent {
	return eb.Subscribe(allEvents)
}

// distributeEvent distributes an event to subscribers
func (eb *EventBus) distributeEvent(event model.GeneratorEvent) {
	eb.mutex.RLock()
	subscribers := append(eb.subscribers[event.EventType][:0:0], eb.subscribers[event.EventType]...)
	subscribers = append(subscribers, eb.subscribers[allEvents]...)
	eb.mutex.RUnlock()

	for _, subscriber := range subscribers {
		select {
		case subscriber <- event:
		default:
			// Subscriber is slow, skip
		}
	}
}
