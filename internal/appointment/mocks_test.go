package appointment

import (
	"context"
	"errors"
	"sync"
	"time"
)

type mockRepository struct {
	createFunc           func(ctx context.Context, a *Appointment) error
	getFunc              func(ctx context.Context, id int64) (*Appointment, error)
	upcomingFunc         func(ctx context.Context, f ListFilter, now time.Time) ([]Appointment, error)
	recentFunc           func(ctx context.Context, now time.Time, limit int) ([]Appointment, error)
	updateStateNotesFunc func(ctx context.Context, id int64, fromState string, req UpdateAppointmentRequest) (*Appointment, error)
	feedEntriesFunc      func(ctx context.Context, mode string, now time.Time) ([]Appointment, error)
}

func (m *mockRepository) Create(ctx context.Context, a *Appointment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return errors.New("not implemented")
}

func (m *mockRepository) Get(ctx context.Context, id int64) (*Appointment, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Upcoming(ctx context.Context, f ListFilter, now time.Time) ([]Appointment, error) {
	if m.upcomingFunc != nil {
		return m.upcomingFunc(ctx, f, now)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) Recent(ctx context.Context, now time.Time, limit int) ([]Appointment, error) {
	if m.recentFunc != nil {
		return m.recentFunc(ctx, now, limit)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) UpdateStateNotes(ctx context.Context, id int64, fromState string, req UpdateAppointmentRequest) (*Appointment, error) {
	if m.updateStateNotesFunc != nil {
		return m.updateStateNotesFunc(ctx, id, fromState, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockRepository) FeedEntries(ctx context.Context, mode string, now time.Time) ([]Appointment, error) {
	if m.feedEntriesFunc != nil {
		return m.feedEntriesFunc(ctx, mode, now)
	}
	return nil, errors.New("not implemented")
}

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, mode string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[mode]
	if !ok {
		return nil, ErrCacheMiss
	}
	return b, nil
}

func (c *memoryCache) Set(_ context.Context, mode string, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[mode] = payload
	return nil
}

func (c *memoryCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]byte{}
	c.invalidated++
	return nil
}

type recordingPublisher struct {
	keys   []string
	events []interface{}
}

func (p *recordingPublisher) Publish(_ context.Context, routingKey string, event interface{}) error {
	p.keys = append(p.keys, routingKey)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
