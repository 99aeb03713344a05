package rooms

import (
	"slices"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestNewRegistry_HasMainRoom(t *testing.T) {
	r := NewRegistry()

	sizes := r.Sizes()
	if _, ok := sizes[MainRoom]; !ok {
		t.Fatal("expected main room to exist")
	}
	testutil.AssertEqual(t, "main room size", sizes[MainRoom], 0)
}

func TestAddMember(t *testing.T) {
	tests := map[string]struct {
		setup  func(*Registry)
		roomId string
		connId string
		expOk  bool
	}{
		"join main room": {
			setup:  func(r *Registry) {},
			roomId: MainRoom,
			connId: "c1",
			expOk:  true,
		},
		"lazily creates unknown room": {
			setup:  func(r *Registry) {},
			roomId: "arena_1",
			connId: "c1",
			expOk:  true,
		},
		"rejects when at capacity": {
			setup: func(r *Registry) {
				r.EnsureRoom("small", 1)
				r.AddMember("small", "c1")
			},
			roomId: "small",
			connId: "c2",
			expOk:  false,
		},
		"re-adding same member is idempotent": {
			setup: func(r *Registry) {
				r.AddMember(MainRoom, "c1")
			},
			roomId: MainRoom,
			connId: "c1",
			expOk:  true,
		},
		"member of another room must leave first": {
			setup: func(r *Registry) {
				r.AddMember("arena_1", "c1")
			},
			roomId: MainRoom,
			connId: "c1",
			expOk:  false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			r := NewRegistry()
			tt.setup(r)

			testutil.AssertEqual(t, "ok", r.AddMember(tt.roomId, tt.connId), tt.expOk)
		})
	}
}

func TestRemoveMember(t *testing.T) {
	r := NewRegistry()
	r.AddMember(MainRoom, "c1")

	if !r.RemoveMember(MainRoom, "c1") {
		t.Error("expected removal to succeed")
	}
	if r.RemoveMember(MainRoom, "c1") {
		t.Error("expected second removal to fail")
	}
	if _, ok := r.RoomOf("c1"); ok {
		t.Error("expected connection to have no room")
	}

	// After leaving, the connection can join another room.
	if !r.AddMember("arena_1", "c1") {
		t.Error("expected rejoin to succeed")
	}
}

func TestMembersOf(t *testing.T) {
	r := NewRegistry()
	r.AddMember(MainRoom, "c1")
	r.AddMember(MainRoom, "c2")

	members := r.MembersOf(MainRoom)
	slices.Sort(members)
	testutil.AssertEqual(t, "member count", len(members), 2)
	testutil.AssertEqual(t, "first", members[0], "c1")
	testutil.AssertEqual(t, "second", members[1], "c2")

	if got := r.MembersOf("no_such_room"); got != nil {
		t.Errorf("expected nil for unknown room, got %v", got)
	}
}

func TestSweep(t *testing.T) {
	r := NewRegistry()
	r.AddMember("busy", "c1")
	r.AddMember("empty", "c2")
	r.RemoveMember("empty", "c2")

	// Nothing is old enough yet.
	testutil.AssertEqual(t, "no removals", r.Sweep(time.Hour), 0)

	// With a zero threshold the empty room is collected; the main room
	// and occupied rooms survive.
	r.rooms["empty"].lastActivity = time.Now().Add(-time.Minute)
	testutil.AssertEqual(t, "one removal", r.Sweep(time.Second), 1)

	sizes := r.Sizes()
	if _, ok := sizes["empty"]; ok {
		t.Error("expected empty room to be gone")
	}
	if _, ok := sizes["busy"]; !ok {
		t.Error("expected occupied room to survive")
	}
	if _, ok := sizes[MainRoom]; !ok {
		t.Error("expected main room to survive")
	}
}
