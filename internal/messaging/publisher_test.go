package messaging

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/pixil98/go-testutil"

	"github.com/tutien/tutien-server/internal/rooms"
)

type fakePublisher struct {
	published map[string][][]byte

	err error
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{published: map[string][][]byte{}}
}

func (p *fakePublisher) Publish(subject string, data []byte) error {
	if p.err != nil {
		return p.err
	}
	p.published[subject] = append(p.published[subject], data)
	return nil
}

func newTestBroadcaster() (*Broadcaster, *fakePublisher, *rooms.Registry) {
	registry := rooms.NewRegistry()
	pub := newFakePublisher()
	return NewBroadcaster(pub, registry), pub, registry
}

func TestUnicast(t *testing.T) {
	b, pub, _ := newTestBroadcaster()

	err := b.Unicast("c1", "player_data", map[string]string{"id": "p1"})
	if err != nil {
		t.Fatalf("unexpected unicast error: %v", err)
	}

	msgs := pub.published[ConnSubject("c1")]
	testutil.AssertEqual(t, "messages on subject", len(msgs), 1)

	var env Envelope
	if err := json.Unmarshal(msgs[0], &env); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	testutil.AssertEqual(t, "event", env.Event, "player_data")
	data := env.Data.(map[string]any)
	testutil.AssertEqual(t, "payload id", data["id"].(string), "p1")
}

func TestRoomcast_Scoping(t *testing.T) {
	b, pub, registry := newTestBroadcaster()

	for _, connId := range []string{"c1", "c2"} {
		if !registry.AddMember(rooms.MainRoom, connId) {
			t.Fatalf("failed to add %s to main room", connId)
		}
	}
	if !registry.AddMember("side_room", "c3") {
		t.Fatal("failed to add c3 to side room")
	}

	err := b.Roomcast(rooms.MainRoom, "chat_message", map[string]string{"message": "xin chào"})
	if err != nil {
		t.Fatalf("unexpected roomcast error: %v", err)
	}

	// Both members of the room receive the event; the other room hears
	// nothing.
	testutil.AssertEqual(t, "c1 messages", len(pub.published[ConnSubject("c1")]), 1)
	testutil.AssertEqual(t, "c2 messages", len(pub.published[ConnSubject("c2")]), 1)
	testutil.AssertEqual(t, "c3 messages", len(pub.published[ConnSubject("c3")]), 0)

	var env Envelope
	if err := json.Unmarshal(pub.published[ConnSubject("c2")][0], &env); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	testutil.AssertEqual(t, "event", env.Event, "chat_message")
}

func TestRoomcast_Exclude(t *testing.T) {
	b, pub, registry := newTestBroadcaster()

	for _, connId := range []string{"c1", "c2", "c3"} {
		if !registry.AddMember(rooms.MainRoom, connId) {
			t.Fatalf("failed to add %s to main room", connId)
		}
	}

	err := b.Roomcast(rooms.MainRoom, "player_joined", map[string]string{"id": "p1"}, "c1")
	if err != nil {
		t.Fatalf("unexpected roomcast error: %v", err)
	}

	testutil.AssertEqual(t, "excluded actor messages", len(pub.published[ConnSubject("c1")]), 0)
	testutil.AssertEqual(t, "c2 messages", len(pub.published[ConnSubject("c2")]), 1)
	testutil.AssertEqual(t, "c3 messages", len(pub.published[ConnSubject("c3")]), 1)
}

func TestRoomcast_EmptyRoom(t *testing.T) {
	b, pub, _ := newTestBroadcaster()

	if err := b.Roomcast("nowhere", "chat_message", nil); err != nil {
		t.Fatalf("unexpected roomcast error: %v", err)
	}
	testutil.AssertEqual(t, "published subjects", len(pub.published), 0)
}

func TestRoomcast_PublishError(t *testing.T) {
	b, pub, registry := newTestBroadcaster()
	pub.err = fmt.Errorf("bus is down")

	if !registry.AddMember(rooms.MainRoom, "c1") {
		t.Fatal("failed to add c1 to main room")
	}
	if err := b.Roomcast(rooms.MainRoom, "chat_message", nil); err == nil {
		t.Error("expected a publish error to surface")
	}
}
