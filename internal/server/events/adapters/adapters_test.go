package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skumerge/internal/server/events"
	"github.com/agentstation/skumerge/internal/server/sse"
	ws "github.com/agentstation/skumerge/internal/server/websocket"
	"github.com/agentstation/skumerge/pkg/logging"
)

func TestSubscribersImplementInterface(t *testing.T) {
	logger := logging.NewNopLogger()
	var _ events.Subscriber = NewSSESubscriber(sse.NewBroadcaster(logger))
	var _ events.Subscriber = NewWebSocketSubscriber(ws.NewHub(logger))
}

func TestSendNeverBlocks(t *testing.T) {
	logger := logging.NewNopLogger()
	sseSub := NewSSESubscriber(sse.NewBroadcaster(logger))
	wsSub := NewWebSocketSubscriber(ws.NewHub(logger))

	// Neither transport is running, so their queues fill and drop.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			ev := events.Event{Type: events.MergeCompleted, Timestamp: utc.Now(), Data: i}
			assert.NoError(t, sseSub.Send(ev))
			assert.NoError(t, wsSub.Send(ev))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Send blocked")
	}
	assert.NoError(t, sseSub.Close())
	assert.NoError(t, wsSub.Close())
}

func TestBrokerToTransports(t *testing.T) {
	logger := logging.NewNopLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker := events.NewBroker(logger)
	hub := ws.NewHub(logger)
	broadcaster := sse.NewBroadcaster(logger)
	broker.Subscribe(NewWebSocketSubscriber(hub))
	broker.Subscribe(NewSSESubscriber(broadcaster))
	go broker.Run(ctx)
	go hub.Run(ctx)
	go broadcaster.Run(ctx)

	require.Eventually(t, func() bool { return broker.SubscriberCount() == 2 }, time.Second, 5*time.Millisecond)
	broker.Publish(events.Event{Type: events.SessionReset})
}
