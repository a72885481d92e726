package events

import (
	"context"
	"log/slog"
	"sync"
)

// MockEventPublisher records published events in memory.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []*Event
	err    error
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

// FailWith makes subsequent Publish calls return err.
func (m *MockEventPublisher) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockEventPublisher) Publish(ctx context.Context, eventType EventType, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, NewEvent(eventType, DefaultSource, data))
	if m.logger != nil {
		m.logger.Debug("Mock event published", "type", eventType)
	}
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// Types returns the types of recorded events in publish order.
func (m *MockEventPublisher) Types() []EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]EventType, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// Events returns a copy of the recorded events.
func (m *MockEventPublisher) Events() []*Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*Event(nil), m.events...)
}
