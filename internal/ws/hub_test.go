package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(userID string) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Send:   make(chan []byte, 4),
	}
}

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	return h, cancel
}

func waitRegistered(t *testing.T, h *Hub, userID string, want int) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		h.mu.RLock()
		n := len(h.clients[userID])
		h.mu.RUnlock()
		if n == want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("expected %d clients for %s, have %d", want, userID, n)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestBroadcastReachesOwnersSessionsOnly(t *testing.T) {
	h, cancel := startHub(t)
	defer cancel()

	a1 := testClient("user-a")
	a2 := testClient("user-a")
	b := testClient("user-b")
	h.Register(a1)
	h.Register(a2)
	h.Register(b)
	waitRegistered(t, h, "user-a", 2)
	waitRegistered(t, h, "user-b", 1)

	event := FileEvent{Event: "file.ready", FileID: "f-1", MuxStatus: "ready", MuxPlaybackID: "pb_1"}
	h.Broadcast("user-a", event)

	for _, c := range []*Client{a1, a2} {
		select {
		case payload := <-c.Send:
			var got FileEvent
			require.NoError(t, json.Unmarshal(payload, &got))
			assert.Equal(t, event, got)
		case <-time.After(time.Second):
			t.Fatal("client did not receive the event")
		}
	}

	select {
	case <-b.Send:
		t.Fatal("event leaked to another user's session")
	default:
	}
}

func TestBroadcastSkipsSlowClients(t *testing.T) {
	h, cancel := startHub(t)
	defer cancel()

	c := &Client{ID: uuid.New().String(), UserID: "user-a", Send: make(chan []byte)}
	h.Register(c)
	waitRegistered(t, h, "user-a", 1)

	// The unbuffered channel has no reader; Broadcast must not block.
	done := make(chan struct{})
	go func() {
		h.Broadcast("user-a", FileEvent{Event: "file.ready", FileID: "f-1"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}

func TestUnregisterClosesSendAndDropsUser(t *testing.T) {
	h, cancel := startHub(t)
	defer cancel()

	c := testClient("user-a")
	h.Register(c)
	waitRegistered(t, h, "user-a", 1)

	h.Unregister(c)
	waitRegistered(t, h, "user-a", 0)

	_, open := <-c.Send
	assert.False(t, open)

	// Broadcasting to a user with no sessions is a no-op.
	h.Broadcast("user-a", FileEvent{Event: "file.ready", FileID: "f-1"})
}
