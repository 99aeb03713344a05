package session

// OnDisconnect is the transport-facing disconnect callback.
func (c *Coordinator) OnDisconnect(connId string) {
	c.HandleDisconnect(connId)
}

// HandleDisconnect tears down a connection. Safe to call more than
// once for the same id; repeat calls find nothing to do.
func (c *Coordinator) HandleDisconnect(connId string) {
	c.mu.Lock()
	cs, ok := c.conns[connId]
	if !ok {
		c.mu.Unlock()
		return
	}
	delete(c.conns, connId)
	playerId := cs.playerId
	c.mu.Unlock()

	if roomId, ok := c.registry.RoomOf(connId); ok {
		c.registry.RemoveMember(roomId, connId)
	}
	if playerId == "" {
		return
	}

	entry, ok := c.entryFor(playerId)
	if !ok {
		return
	}

	entry.mu.Lock()
	if entry.connId != connId {
		// a newer connection took this session over already
		entry.mu.Unlock()
		return
	}
	entry.connId = ""
	entry.evictAt = c.now().Add(c.evictionGrace)
	snapshot := entry.snapshot
	snapshot.Online = false
	notice := leftNotice{Id: snapshot.Id, Name: snapshot.Name}
	roomId := snapshot.CurrentRoom
	captured := snapshot.Clone()
	entry.mu.Unlock()

	c.enqueueWrite(captured)
	// The flag is written through immediately so the ops surface counts
	// the player offline without waiting for the queue to drain.
	if err := c.store.SetOnline(playerId, false); err != nil {
		c.logger.Warn("failed to write offline flag", "player", playerId, "error", err)
	}
	c.roomcast(roomId, EventPlayerLeft, notice)
	c.logger.Info("player disconnected", "player", playerId, "conn", connId)
}
