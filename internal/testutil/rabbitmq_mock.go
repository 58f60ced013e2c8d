package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/WailSalutem-Health-Care/clinic-service/internal/messaging"
)

// PublishedEvent is one event captured by MockPublisher.
type PublishedEvent struct {
	RoutingKey string
	RawJSON    []byte
}

// MockPublisher records events in memory instead of sending them to RabbitMQ.
type MockPublisher struct {
	mu     sync.RWMutex
	events []PublishedEvent
}

var _ messaging.PublisherInterface = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

// Publish marshals eventData the way the real publisher does and keeps the bytes.
func (m *MockPublisher) Publish(ctx context.Context, routingKey string, eventData interface{}) error {
	raw, err := json.Marshal(eventData)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, PublishedEvent{RoutingKey: routingKey, RawJSON: raw})
	return nil
}

func (m *MockPublisher) Close() error {
	return nil
}

// CountByKey returns the number of events published under routingKey.
func (m *MockPublisher) CountByKey(routingKey string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.events {
		if e.RoutingKey == routingKey {
			count++
		}
	}
	return count
}

// Keys returns the routing keys in publish order.
func (m *MockPublisher) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, len(m.events))
	for i, e := range m.events {
		keys[i] = e.RoutingKey
	}
	return keys
}

// DecodeLast unmarshals the most recent event under routingKey into target.
func (m *MockPublisher) DecodeLast(t *testing.T, routingKey string, target interface{}) {
	t.Helper()

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].RoutingKey == routingKey {
			if err := json.Unmarshal(m.events[i].RawJSON, target); err != nil {
				t.Fatalf("Failed to decode %s event: %v", routingKey, err)
			}
			return
		}
	}
	t.Fatalf("No %s event was published", routingKey)
}

func (m *MockPublisher) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
