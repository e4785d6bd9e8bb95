package service

import (
	"context"
	"sync"
	"time"

	"github.com/persistorai/netgraph/internal/models"
)

// mockSource records calls and returns configured responses. Unset funcs
// return empty results.
type mockSource struct {
	mu    sync.Mutex
	calls []string

	listUsers         func(ctx context.Context) ([]models.User, error)
	listFriendships   func(ctx context.Context) ([]models.Friendship, error)
	aggregateMessages func(ctx context.Context, w models.Window) ([]models.MessageAggRow, error)
	messageTimestamps func(ctx context.Context, w models.Window) ([]time.Time, error)
	sentMessages      func(ctx context.Context, w models.Window) ([]models.SentMessage, error)
	ping              func(ctx context.Context) error
}

func (m *mockSource) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockSource) called(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.calls {
		if c == name {
			return true
		}
	}

	return false
}

func (m *mockSource) ListUsers(ctx context.Context) ([]models.User, error) {
	m.record("ListUsers")
	if m.listUsers == nil {
		return nil, nil
	}

	return m.listUsers(ctx)
}

func (m *mockSource) ListFriendships(ctx context.Context) ([]models.Friendship, error) {
	m.record("ListFriendships")
	if m.listFriendships == nil {
		return nil, nil
	}

	return m.listFriendships(ctx)
}

func (m *mockSource) AggregateMessages(ctx context.Context, w models.Window) ([]models.MessageAggRow, error) {
	m.record("AggregateMessages")
	if m.aggregateMessages == nil {
		return nil, nil
	}

	return m.aggregateMessages(ctx, w)
}

func (m *mockSource) MessageTimestamps(ctx context.Context, w models.Window) ([]time.Time, error) {
	m.record("MessageTimestamps")
	if m.messageTimestamps == nil {
		return nil, nil
	}

	return m.messageTimestamps(ctx, w)
}

func (m *mockSource) SentMessages(ctx context.Context, w models.Window) ([]models.SentMessage, error) {
	m.record("SentMessages")
	if m.sentMessages == nil {
		return nil, nil
	}

	return m.sentMessages(ctx, w)
}

func (m *mockSource) Ping(ctx context.Context) error {
	m.record("Ping")
	if m.ping == nil {
		return nil
	}

	return m.ping(ctx)
}
