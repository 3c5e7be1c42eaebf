package events

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/pkg/logging"
	"github.com/agentstation/skumerge/pkg/session"
)

type mockSubscriber struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (m *mockSubscriber) Send(event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockSubscriber) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockSubscriber) received() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), m.events...)
}

func (m *mockSubscriber) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Subscribing before Run must not block.
	sub1, sub2 := &mockSubscriber{}, &mockSubscriber{}
	b.Subscribe(sub1)
	b.Subscribe(sub2)
	go b.Run(ctx)

	require.Eventually(t, func() bool { return b.SubscriberCount() == 2 }, time.Second, 5*time.Millisecond)

	b.Publish(Event{Type: MergeCompleted, SessionID: "s1"})

	for _, sub := range []*mockSubscriber{sub1, sub2} {
		require.Eventually(t, func() bool { return len(sub.received()) == 1 }, time.Second, 5*time.Millisecond)
		got := sub.received()[0]
		assert.Equal(t, MergeCompleted, got.Type)
		assert.Equal(t, "s1", got.SessionID)
		assert.False(t, got.Timestamp.Time.IsZero())
	}
}

func TestBrokerUnsubscribeAndShutdown(t *testing.T) {
	b := NewBroker(logging.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go b.Run(ctx)

	sub1, sub2 := &mockSubscriber{}, &mockSubscriber{}
	b.Subscribe(sub1)
	b.Subscribe(sub2)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 2 }, time.Second, 5*time.Millisecond)

	b.Unsubscribe(sub1)
	require.Eventually(t, func() bool { return b.SubscriberCount() == 1 }, time.Second, 5*time.Millisecond)
	assert.True(t, sub1.isClosed())

	cancel()
	require.Eventually(t, func() bool { return b.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	assert.True(t, sub2.isClosed())
}

func TestFromSession(t *testing.T) {
	ev := session.Event{Type: session.EventConflictResolved, SessionID: "abc", Data: 3}
	got := FromSession(ev)
	assert.Equal(t, ConflictResolved, got.Type)
	assert.Equal(t, "abc", got.SessionID)
	assert.Equal(t, 3, got.Data)
}
