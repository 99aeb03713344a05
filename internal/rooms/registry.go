package rooms

import (
	"sync"
	"time"
)

const (
	DefaultCapacity = 50

	// MainRoom always exists and is never garbage collected.
	MainRoom = "main_room"
)

type room struct {
	capacity     int
	members      map[string]struct{}
	createdAt    time.Time
	lastActivity time.Time
}

// Registry is the membership index used for room-cast fan-out. It maps
// room ids to member connection ids and never holds player data; the
// session coordinator is the source of truth for who a connection is.
type Registry struct {
	mu sync.RWMutex

	rooms      map[string]*room
	memberRoom map[string]string

	defaultCapacity int
}

type RegistryOpt func(*Registry)

// WithDefaultCapacity sets the member bound for lazily created rooms.
func WithDefaultCapacity(n int) RegistryOpt {
	return func(r *Registry) {
		r.defaultCapacity = n
	}
}

// NewRegistry creates a registry with the main room already present.
func NewRegistry(opts ...RegistryOpt) *Registry {
	r := &Registry{
		rooms:           make(map[string]*room),
		memberRoom:      make(map[string]string),
		defaultCapacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.EnsureRoom(MainRoom, r.defaultCapacity)
	return r
}

// EnsureRoom creates a room with the given capacity if it does not
// already exist. Existing rooms keep their capacity.
func (r *Registry) EnsureRoom(id string, capacity int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; ok {
		return
	}
	if capacity <= 0 {
		capacity = r.defaultCapacity
	}
	now := time.Now()
	r.rooms[id] = &room{
		capacity:     capacity,
		members:      make(map[string]struct{}),
		createdAt:    now,
		lastActivity: now,
	}
}

// AddMember registers a connection in a room, creating the room lazily.
// Returns false if the room is at capacity or the connection is already
// a member of another room (moving rooms is remove-then-add).
func (r *Registry) AddMember(roomId, connId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.memberRoom[connId]; ok {
		return current == roomId
	}

	rm, ok := r.rooms[roomId]
	if !ok {
		now := time.Now()
		rm = &room{
			capacity:     r.defaultCapacity,
			members:      make(map[string]struct{}),
			createdAt:    now,
			lastActivity: now,
		}
		r.rooms[roomId] = rm
	}

	if len(rm.members) >= rm.capacity {
		return false
	}

	rm.members[connId] = struct{}{}
	r.memberRoom[connId] = roomId
	rm.lastActivity = time.Now()
	return true
}

// RemoveMember removes a connection from a room. Returns false if the
// connection was not a member.
func (r *Registry) RemoveMember(roomId, connId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return false
	}
	if _, ok := rm.members[connId]; !ok {
		return false
	}

	delete(rm.members, connId)
	delete(r.memberRoom, connId)
	rm.lastActivity = time.Now()
	return true
}

// MembersOf returns a copy of the room's member set. The copy is a
// consistent snapshot; it may be stale by at most one join or leave by
// the time a broadcast built from it is delivered, which is harmless
// because the transport drops sends to unknown connections.
func (r *Registry) MembersOf(roomId string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.rooms[roomId]
	if !ok {
		return nil
	}
	members := make([]string, 0, len(rm.members))
	for id := range rm.members {
		members = append(members, id)
	}
	return members
}

// RoomOf returns the room a connection currently belongs to.
func (r *Registry) RoomOf(connId string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roomId, ok := r.memberRoom[connId]
	return roomId, ok
}

// Sizes returns the member count of every room, for the ops surface.
func (r *Registry) Sizes() map[string]int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sizes := make(map[string]int, len(r.rooms))
	for id, rm := range r.rooms {
		sizes[id] = len(rm.members)
	}
	return sizes
}

// Sweep deletes rooms that are both empty and idle past the threshold.
// The main room is permanent.
func (r *Registry) Sweep(idleThreshold time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-idleThreshold)
	removed := 0
	for id, rm := range r.rooms {
		if id == MainRoom {
			continue
		}
		if len(rm.members) == 0 && rm.lastActivity.Before(cutoff) {
			delete(r.rooms, id)
			removed++
		}
	}
	return removed
}
