package messaging

import (
	"encoding/json"
	"fmt"

	"github.com/tutien/tutien-server/internal/rooms"
)

// ConnSubject is the bus subject a connection's outbound events are
// published on.
func ConnSubject(connId string) string {
	return fmt.Sprintf("conn.%s", connId)
}

// Envelope is the wire format for every outbound event.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Publisher is the bus write side. Implemented by NatsServer.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Broadcaster delivers game events to connections via per-connection
// bus subjects. Room-casts fan out over the registry's membership
// snapshot; a member that left between snapshot and publish just means
// a message on a subject nobody is subscribed to.
type Broadcaster struct {
	pub      Publisher
	registry *rooms.Registry
}

// NewBroadcaster wraps a bus publisher for per-connection event delivery.
func NewBroadcaster(pub Publisher, registry *rooms.Registry) *Broadcaster {
	return &Broadcaster{pub: pub, registry: registry}
}

// Unicast delivers one event to one connection.
func (b *Broadcaster) Unicast(connId, event string, payload any) error {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", event, err)
	}
	return b.pub.Publish(ConnSubject(connId), data)
}

// Roomcast delivers one event to every member of a room, minus any
// excluded connections.
func (b *Broadcaster) Roomcast(roomId, event string, payload any, exclude ...string) error {
	data, err := json.Marshal(Envelope{Event: event, Data: payload})
	if err != nil {
		return fmt.Errorf("marshalling %s event: %w", event, err)
	}

	excludeSet := make(map[string]bool, len(exclude))
	for _, id := range exclude {
		excludeSet[id] = true
	}

	var firstErr error
	for _, connId := range b.registry.MembersOf(roomId) {
		if excludeSet[connId] {
			continue
		}
		if err := b.pub.Publish(ConnSubject(connId), data); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
