package session

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/tutien/tutien-server/internal/game"
	"github.com/tutien/tutien-server/internal/rooms"
)

const defaultPlayerName = "Người Chơi"

// HandleJoin binds a connection to a player, loading the persisted
// record or creating a fresh one. A join for a player who is already
// resident takes over the session: the previous connection is kicked
// and the warm snapshot is reused as-is.
func (c *Coordinator) HandleJoin(connId, requestedId string, defaults game.Defaults) (*JoinResult, error) {
	name := strings.TrimSpace(defaults.Name)
	if name == "" {
		name = defaultPlayerName
	}
	if utf8.RuneCountInString(name) > c.maxNameLen {
		return nil, fmt.Errorf("%w: name exceeds %d characters", ErrInvalidPlayerData, c.maxNameLen)
	}

	playerId := requestedId
	if playerId == "" {
		playerId = uuid.NewString()
	}

	c.mu.Lock()
	cs, ok := c.conns[connId]
	if !ok {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: unknown connection %s", ErrNotJoined, connId)
	}
	if cs.playerId != "" {
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: connection already joined as %s", ErrInvalidPlayerData, cs.playerId)
	}
	c.mu.Unlock()

	entry := c.lockEntry(playerId)

	if entry.snapshot == nil {
		p, found, err := c.store.Load(playerId)
		if err != nil {
			c.dropEmptyEntry(playerId, entry)
			entry.mu.Unlock()
			return nil, fmt.Errorf("%w: load %s: %v", ErrPersistenceUnavailable, playerId, err)
		}
		if !found {
			p = game.NewPlayer(playerId, name)
			if err := c.store.Upsert(p.Clone()); err != nil {
				c.dropEmptyEntry(playerId, entry)
				entry.mu.Unlock()
				return nil, fmt.Errorf("%w: create %s: %v", ErrPersistenceUnavailable, playerId, err)
			}
			c.logger.Info("created player", "player", playerId, "name", name)
		}
		c.setSnapshot(entry, p)
	}

	if stale := entry.connId; stale != "" && stale != connId {
		c.logger.Info("session takeover", "player", playerId, "old", stale, "new", connId)
		c.kickConn(stale, "another session has taken over this character")
	}

	if !c.registry.AddMember(rooms.MainRoom, connId) {
		entry.connId = ""
		entry.evictAt = c.now().Add(c.evictionGrace)
		entry.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrRoomFull, rooms.MainRoom)
	}

	snapshot := entry.snapshot
	snapshot.Online = true
	snapshot.CurrentRoom = rooms.MainRoom
	entry.connId = connId
	entry.evictAt = zeroTime

	c.mu.Lock()
	cs.playerId = playerId
	c.mu.Unlock()

	joined := snapshot.Clone()
	notice := joinedNotice{Id: snapshot.Id, Name: snapshot.Name, Level: snapshot.Level}
	entry.mu.Unlock()

	c.enqueueWrite(joined.Clone())
	if err := c.store.SetOnline(playerId, true); err != nil {
		c.logger.Warn("failed to write online flag", "player", playerId, "error", err)
	}

	result := &JoinResult{
		Player:      joined,
		RoomId:      rooms.MainRoom,
		RoomPlayers: c.roomSummaries(rooms.MainRoom),
	}
	c.unicast(connId, EventPlayerData, result)
	c.unicast(connId, EventRoomPlayers, result.RoomPlayers)
	c.roomcast(rooms.MainRoom, EventPlayerJoined, notice, connId)

	c.logger.Info("player joined", "player", playerId, "conn", connId, "room", rooms.MainRoom)
	return result, nil
}

// lockEntry returns the resident entry for a player, locked. The
// eviction sweep may delete an entry between the map lookup and
// acquiring its lock; the entry is re-checked against the map once
// locked, reinstalled if eviction removed it in that window, and
// abandoned in favor of a retry if a different entry replaced it.
func (c *Coordinator) lockEntry(playerId string) *playerEntry {
	for {
		c.mu.Lock()
		entry, resident := c.players[playerId]
		if !resident {
			entry = &playerEntry{}
			c.players[playerId] = entry
		}
		c.mu.Unlock()

		entry.mu.Lock()
		c.mu.Lock()
		cur, ok := c.players[playerId]
		if !ok {
			c.players[playerId] = entry
			cur = entry
		}
		c.mu.Unlock()
		if cur == entry {
			return entry
		}
		entry.mu.Unlock()
	}
}

// dropEmptyEntry removes an entry that never acquired a snapshot so a
// failed join leaves no residue.
func (c *Coordinator) dropEmptyEntry(playerId string, entry *playerEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cur, ok := c.players[playerId]; ok && cur == entry && entry.snapshot == nil {
		delete(c.players, playerId)
	}
}

// setSnapshot installs a snapshot pointer. Pointer writes take both the
// entry lock (held by the caller) and the coordinator lock so that
// summary reads under c.mu alone are safe.
func (c *Coordinator) setSnapshot(entry *playerEntry, p *game.Player) {
	c.mu.Lock()
	entry.snapshot = p
	c.mu.Unlock()
}

// kickConn force-detaches a connection without touching player state.
// The transport closes the socket when it sees the kick event; the
// eventual disconnect callback finds nothing bound and is a no-op.
func (c *Coordinator) kickConn(connId, reason string) {
	c.unicast(connId, EventKick, errorNotice{Message: reason})
	if roomId, ok := c.registry.RoomOf(connId); ok {
		c.registry.RemoveMember(roomId, connId)
	}
	c.mu.Lock()
	delete(c.conns, connId)
	c.mu.Unlock()
}

// roomSummaries resolves current room members to player summaries.
// Members whose connection or snapshot cannot be resolved are skipped.
func (c *Coordinator) roomSummaries(roomId string) []game.Summary {
	members := c.registry.MembersOf(roomId)
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]game.Summary, 0, len(members))
	for _, member := range members {
		cs, ok := c.conns[member]
		if !ok || cs.playerId == "" {
			continue
		}
		entry, ok := c.players[cs.playerId]
		if !ok || entry.snapshot == nil {
			continue
		}
		out = append(out, entry.snapshot.Summary())
	}
	return out
}
