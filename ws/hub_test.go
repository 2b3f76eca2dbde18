package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return &Client{
		ID:    "test",
		send:  make(chan []byte, 16),
		rooms: make(map[string]bool),
	}
}

func TestBroadcastReachesOnlyRoomMembers(t *testing.T) {
	hub := NewHub()
	inRoom := testClient()
	outside := testClient()
	hub.add(inRoom)
	hub.add(outside)
	hub.join(inRoom, "order:1")

	hub.Broadcast("order:1", Event{Type: "order:status-changed", Payload: "READY"})

	require.Len(t, inRoom.send, 1)
	assert.Empty(t, outside.send)

	var event Event
	require.NoError(t, json.Unmarshal(<-inRoom.send, &event))
	assert.Equal(t, "order:status-changed", event.Type)
	assert.Equal(t, "READY", event.Payload)
}

func TestBroadcastToEmptyRoomIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Broadcast("order:404", Event{Type: "noop"})
}

func TestRemoveLeavesAllRooms(t *testing.T) {
	hub := NewHub()
	client := testClient()
	hub.add(client)
	hub.join(client, "user:7")
	hub.join(client, "role:ADMIN")

	hub.remove(client)

	assert.Empty(t, hub.rooms, "empty rooms must be dropped entirely")
	hub.Broadcast("user:7", Event{Type: "notification"})

	// The send channel is closed on removal.
	_, open := <-client.send
	assert.False(t, open)
}

func TestSlowClientIsSkipped(t *testing.T) {
	hub := NewHub()
	slow := &Client{ID: "slow", send: make(chan []byte), rooms: make(map[string]bool)}
	hub.add(slow)
	hub.join(slow, "role:CUISINIER")

	// Nobody reads from slow.send; Broadcast must not block.
	hub.Broadcast("role:CUISINIER", Event{Type: "order:new"})
}
