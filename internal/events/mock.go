package events

import (
	"log/slog"
	"sync"
)

// MockEventPublisher records events in memory for service tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []SessionEvent
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) PublishSessionEvent(event SessionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	m.logger.Debug("mock event published", "type", event.Type, "session_id", event.SessionID)
	return nil
}

func (m *MockEventPublisher) GetPublishedEvents() []SessionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SessionEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockEventPublisher) Close() error { return nil }
